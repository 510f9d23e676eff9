package config

import "gopkg.in/yaml.v3"

func yamlUnmarshal(doc string, out interface{}) error {
	return yaml.Unmarshal([]byte(doc), out)
}
