// Package inspect renders interpreter variables as JSON, optionally
// filtered through a jq query.
package inspect

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/itchyny/gojq"
	"github.com/rhino1998/bhask/pkg/value"
)

func Document(vars map[string]value.Value) map[string]any {
	doc := make(map[string]any, len(vars))
	for name, v := range vars {
		doc[name] = value.Native(v)
	}

	return doc
}

// Dump writes vars to w as indented JSON. With a non-empty query every
// result of the query is written instead, one JSON document per result.
func Dump(w io.Writer, vars map[string]value.Value, query string) error {
	doc := Document(vars)

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	if query == "" {
		return enc.Encode(doc)
	}

	q, err := gojq.Parse(query)
	if err != nil {
		return fmt.Errorf("invalid jq query %q: %w", query, err)
	}

	iter := q.Run(doc)
	for {
		v, ok := iter.Next()
		if !ok {
			break
		}

		if err, ok := v.(error); ok {
			return fmt.Errorf("jq query %q: %w", query, err)
		}

		err := enc.Encode(v)
		if err != nil {
			return err
		}
	}

	return nil
}
