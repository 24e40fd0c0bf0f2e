package client

import "sync"

// Домены кэша; мутирующие вызовы сбрасывают целый домен
const (
	domainProducts = "products"
	domainProduct  = "product"
	domainMe       = "me"
	domainMyOrders = "my_orders"
)

// store хранит последний ответ по каждому ключу внутри домена
type store struct {
	mu      sync.RWMutex
	entries map[string]map[string]any
}

func newStore() *store {
	return &store{entries: make(map[string]map[string]any)}
}

func (s *store) get(domain, key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.entries[domain][key]
	return v, ok
}

func (s *store) put(domain, key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.entries[domain] == nil {
		s.entries[domain] = make(map[string]any)
	}
	s.entries[domain][key] = value
}

func (s *store) invalidate(domains ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, d := range domains {
		delete(s.entries, d)
	}
}

func (s *store) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = make(map[string]map[string]any)
}
