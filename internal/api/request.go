package api

import (
	"bytes"
	"fmt"
	"strconv"
)

// flexID is a numeric id that also accepts a quoted number. The dashboard
// forwards ids taken from route params, which are strings.
//
// Why not just use json.Number? It still rejects `"12"` unless the whole
// decoder is switched to UseNumber, and gin's binding does not expose
// that per request.
type flexID int64

func (f *flexID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = 0
		return nil
	}
	if len(data) >= 2 && data[0] == '"' && data[len(data)-1] == '"' {
		data = data[1 : len(data)-1]
	}
	n, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid id %q", data)
	}
	*f = flexID(n)
	return nil
}
