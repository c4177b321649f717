package schema

import (
	"reflect"
	"strings"
	"sync"

	"github.com/pkg/errors"
)

// DefaultTagName is the struct tag consulted when no other name is configured.
const DefaultTagName = "prop"

// ParsedTag is the parsed property tag of a struct field.
//
//	TempData tempdata.Dictionary `prop:"TempDataDictionary"` // rename
//	Scratch  map[string]any      `prop:"-"`                  // skip
type ParsedTag struct {
	Name string // Property name (explicit or the Go field name)
	Skip bool   // Field is not a readable property (prop:"-")
}

func (t *ParsedTag) IsSkipped() bool {
	return t.Skip
}

// TagParser parses property tags and caches the results keyed by field name
// and raw tag value.
type TagParser struct {
	tagName string
	cache   map[string]*ParsedTag
	cacheMu sync.RWMutex
}

func NewTagParser(tagName string) *TagParser {
	if tagName == "" {
		tagName = DefaultTagName
	}
	return &TagParser{
		tagName: tagName,
		cache:   make(map[string]*ParsedTag, 64),
	}
}

// ParseTag returns the parsed configuration for a field. The returned value is
// shared across callers and must not be modified.
func (p *TagParser) ParseTag(fieldName string, tag reflect.StructTag) (*ParsedTag, error) {
	raw, _ := tag.Lookup(p.tagName)
	key := fieldName + "\x00" + raw

	p.cacheMu.RLock()
	if cached, ok := p.cache[key]; ok {
		p.cacheMu.RUnlock()
		return cached, nil
	}
	p.cacheMu.RUnlock()

	parsed, err := parseTagValue(fieldName, raw)
	if err != nil {
		return nil, err
	}

	p.cacheMu.Lock()
	p.cache[key] = parsed
	p.cacheMu.Unlock()

	return parsed, nil
}

func parseTagValue(fieldName, raw string) (*ParsedTag, error) {
	raw = strings.TrimSpace(raw)
	if raw == "-" {
		return &ParsedTag{Name: fieldName, Skip: true}, nil
	}
	if raw == "" {
		return &ParsedTag{Name: fieldName}, nil
	}
	if strings.ContainsAny(raw, " \t:;,") {
		return nil, errors.Errorf("invalid property name %q", raw)
	}
	return &ParsedTag{Name: raw}, nil
}
