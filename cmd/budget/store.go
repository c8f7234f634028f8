package main

import (
	"fmt"
	"strings"

	"github.com/voidshard/budget/pkg/store"
)

// getStore turns a `type:location` string into a store.
func getStore(out, key string) (store.Store, error) {
	bits := strings.SplitN(out, ":", 2)
	if len(bits) != 2 || (bits[1] == "" && bits[0] != "es8") {
		return nil, fmt.Errorf("invalid store %q, expected [jsonfile:/path/to/file.json sealed:/path/to/file sqlite:/path/to/file.db es8:http://elasticsearch:9200]", out)
	}

	switch bits[0] {
	case "jsonfile":
		return store.NewJSONFile(bits[1]), nil
	case "sealed":
		return store.NewSealed(bits[1], key)
	case "sqlite":
		return store.NewSQLite(bits[1])
	case "es8":
		if bits[1] == "" {
			// address from ELASTICSEARCH_SERVICE_HOST / _PORT
			return store.NewElasticsearchV8(), nil
		}
		return store.NewElasticsearchV8(bits[1]), nil
	}

	return nil, fmt.Errorf("unknown store type %q", bits[0])
}
