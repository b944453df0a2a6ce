package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// compiled holds *jsonschema.Schema values keyed by Schema.Name.
var compiled sync.Map

// finish turns raw model output into a Response. Output cut off by the token
// limit is rejected when a schema was requested, since partial JSON can
// never validate.
func finish(provider string, req Request, text string, resp Response) (*Response, error) {
	resp.Content = json.RawMessage(text)
	if req.Schema == nil {
		return &resp, nil
	}
	if resp.StopReason == StopMaxTokens {
		return nil, &Error{
			Kind:     KindTruncated,
			Provider: provider,
			Content:  resp.Content,
			Err:      fmt.Errorf("stopped after %d output tokens", resp.Usage.OutputTokens),
		}
	}
	if err := validate(req.Schema, resp.Content); err != nil {
		return nil, &Error{Kind: KindInvalidResponse, Provider: provider, Content: resp.Content, Err: err}
	}
	return &resp, nil
}

// validate checks raw against schema.
func validate(schema *Schema, raw json.RawMessage) error {
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("not JSON: %w", err)
	}
	s, err := compile(schema)
	if err != nil {
		return fmt.Errorf("schema %q: %w", schema.Name, err)
	}
	return s.Validate(doc)
}

func compile(schema *Schema) (*jsonschema.Schema, error) {
	if s, ok := compiled.Load(schema.Name); ok {
		return s.(*jsonschema.Schema), nil
	}
	if schema.Name == "" {
		return nil, errors.New("schema has no name")
	}

	// The compiler wants decoded JSON values, not Go maps of arbitrary types.
	b, err := json.Marshal(schema.Definition)
	if err != nil {
		return nil, err
	}
	var doc any
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, err
	}

	url := "mem://schemas/" + schema.Name + ".json"
	c := jsonschema.NewCompiler()
	if err := c.AddResource(url, doc); err != nil {
		return nil, err
	}
	s, err := c.Compile(url)
	if err != nil {
		return nil, err
	}
	compiled.Store(schema.Name, s)
	return s, nil
}
