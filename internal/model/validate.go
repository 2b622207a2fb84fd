package model

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schema/questions.schema.json
var questionsSchema string

//go:embed schema/config.schema.json
var configSchema string

// ValidateQuestions validates the raw recorded answers document.
func ValidateQuestions(doc []byte) error {
	return validate(questionsSchema, gojsonschema.NewBytesLoader(doc))
}

// ValidateConfig validates a decoded config document. The map must hold
// JSON-compatible values (string keys all the way down).
func ValidateConfig(m map[string]interface{}) error {
	return validate(configSchema, gojsonschema.NewGoLoader(m))
}

func validate(schema string, doc gojsonschema.JSONLoader) error {
	res, err := gojsonschema.Validate(gojsonschema.NewStringLoader(schema), doc)
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
