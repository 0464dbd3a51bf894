package model

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schema/resume.schema.json
var resumeSchema []byte

var schemaLoader = gojsonschema.NewBytesLoader(resumeSchema)

// ValidateJSON validates a raw stored document against resume.schema.json.
// The schema checks shape only, so legacy documents with missing keys pass.
func ValidateJSON(raw []byte) error {
	res, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return err
	}
	if res.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(res.Errors()))
	for _, e := range res.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("schema validation failed: %s", strings.Join(msgs, "; "))
}
