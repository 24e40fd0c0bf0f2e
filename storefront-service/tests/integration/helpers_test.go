//go:build integration

package integration

import (
	"bytes"
	"encoding/json"
	"io"
)

func jsonBody(v interface{}) io.Reader {
	payload, _ := json.Marshal(v)
	return bytes.NewReader(payload)
}
