package airbyte

import (
	"fmt"
	"os"

	"github.com/starx-inc/airbyte/base/jsoniter"
)

// argValue scans os.Args for `--flag value`
func argValue(flag string) (string, bool) {
	for i := 1; i < len(os.Args)-1; i++ {
		if os.Args[i] == flag {
			return os.Args[i+1], true
		}
	}
	return "", false
}

func getConfigPath() (string, error) {
	path, ok := argValue("--config")
	if !ok {
		return "", fmt.Errorf("expect --config <path>")
	}
	return path, nil
}

func getCatalogPath() (string, error) {
	path, ok := argValue("--catalog")
	if !ok {
		return "", fmt.Errorf("expect --catalog <path>")
	}
	return path, nil
}

// getStatePath returns the --state path or "" since state is optional
func getStatePath() (string, error) {
	path, _ := argValue("--state")
	return path, nil
}

// UnmarshalFromPath is used to unmarshal json files into respective struct's
// this is most commonly used to unmarshal your State between runs and also unmarshal SourceConfig's
//
// Example usage
//
//	 type CustomState struct {
//		 Timestamp int    `json:"timestamp"`
//		 Foobar    string `json:"foobar"`
//	 }
//
//	 func (s *CustomSource) Read(stPath string, ...) error {
//		 var cs CustomState
//		 err = airbyte.UnmarshalFromPath(stPath, &cs)
//		 if err != nil {
//			 // handle error
//		 }
//	 	 // cs is populated
//	  }
func UnmarshalFromPath(path string, v any) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	return jsoniter.Unmarshal(b, v)
}

// ReadRawConfig reads connector configuration from path as an untyped document so it
// can be validated before being decoded into typed structs
func ReadRawConfig(path string) (map[string]any, error) {
	raw := map[string]any{}
	if err := UnmarshalFromPath(path, &raw); err != nil {
		return nil, fmt.Errorf("failed to read config %s: %v", path, err)
	}
	return raw, nil
}
