package notion

import "encoding/json"

// PropertyValue is the value written into one page property. The set of
// shapes is closed; use the constructors below.
type PropertyValue interface {
	// Type returns the Notion property type the value is shaped for.
	Type() string
	isPropertyValue()
}

// Properties maps property names to their values.
type Properties map[string]PropertyValue

type titleValue struct {
	Title []RichText `json:"title"`
}

type richTextValue struct {
	RichText []RichText `json:"rich_text"`
}

type dateValue struct {
	Date struct {
		Start string `json:"start"`
	} `json:"date"`
}

type selectValue struct {
	Select Option `json:"select"`
}

type multiSelectValue struct {
	MultiSelect []Option `json:"multi_select"`
}

type statusValue struct {
	Status Option `json:"status"`
}

type relationValue struct {
	Relation []PageRef `json:"relation"`
}

// PageRef points at another page.
type PageRef struct {
	ID string `json:"id"`
}

func (titleValue) Type() string       { return TypeTitle }
func (richTextValue) Type() string    { return TypeRichText }
func (dateValue) Type() string        { return TypeDate }
func (selectValue) Type() string      { return TypeSelect }
func (multiSelectValue) Type() string { return TypeMultiSelect }
func (statusValue) Type() string      { return TypeStatus }
func (relationValue) Type() string    { return TypeRelation }

func (titleValue) isPropertyValue()       {}
func (richTextValue) isPropertyValue()    {}
func (dateValue) isPropertyValue()        {}
func (selectValue) isPropertyValue()      {}
func (multiSelectValue) isPropertyValue() {}
func (statusValue) isPropertyValue()      {}
func (relationValue) isPropertyValue()    {}

func textFragments(content string) []RichText {
	return []RichText{{Type: "text", Text: &TextContent{Content: content}}}
}

// Title builds a title value.
func Title(content string) PropertyValue {
	return titleValue{Title: textFragments(content)}
}

// Text builds a rich_text value.
func Text(content string) PropertyValue {
	return richTextValue{RichText: textFragments(content)}
}

// Date builds a date value starting at start (ISO 8601).
func Date(start string) PropertyValue {
	v := dateValue{}
	v.Date.Start = start
	return v
}

// Select builds a select value.
func Select(name string) PropertyValue {
	return selectValue{Select: Option{Name: name}}
}

// MultiSelect builds a multi_select value.
func MultiSelect(names ...string) PropertyValue {
	opts := make([]Option, 0, len(names))
	for _, n := range names {
		opts = append(opts, Option{Name: n})
	}
	return multiSelectValue{MultiSelect: opts}
}

// Status builds a status value.
func Status(name string) PropertyValue {
	return statusValue{Status: Option{Name: name}}
}

// Relation builds a relation value pointing at the given pages.
func Relation(pageIDs ...string) PropertyValue {
	refs := make([]PageRef, 0, len(pageIDs))
	for _, id := range pageIDs {
		refs = append(refs, PageRef{ID: id})
	}
	return relationValue{Relation: refs}
}

// ChoiceValue shapes an option name for a property of the given type.
// Unknown types get a select value.
func ChoiceValue(propertyType, name string) PropertyValue {
	switch propertyType {
	case TypeMultiSelect:
		return MultiSelect(name)
	case TypeStatus:
		return Status(name)
	default:
		return Select(name)
	}
}

// MarshalJSON encodes each value with its concrete shape.
func (p Properties) MarshalJSON() ([]byte, error) {
	out := make(map[string]json.RawMessage, len(p))
	for name, v := range p {
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		out[name] = raw
	}
	return json.Marshal(out)
}
