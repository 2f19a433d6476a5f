package pkg

import (
	"encoding/json"
	"fmt"
)

// Sprint renders v as indented JSON for debug output.
func Sprint(v any) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("%+v", v)
	}
	return string(data)
}
