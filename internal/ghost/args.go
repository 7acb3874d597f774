package ghost

// BrowseContentArgs contains parameters for browsing posts and pages
type BrowseContentArgs struct {
	Include []string `json:"include,omitempty" jsonschema_description:"Relations to include, e.g. authors, tags"`
	Fields  []string `json:"fields,omitempty" jsonschema_description:"Limit the response to these fields, e.g. title, url"`
	Filter  string   `json:"filter,omitempty" jsonschema_description:"NQL filter, e.g. tag:getting-started+featured:true"`
	Limit   int      `json:"limit,omitempty" jsonschema_description:"Items per page (Ghost default 15)"`
	Page    int      `json:"page,omitempty" jsonschema_description:"Page number, starting at 1"`
	Order   string   `json:"order,omitempty" jsonschema_description:"Sort order, e.g. -published_at or title asc"`
	Formats []string `json:"formats,omitempty" jsonschema_description:"Content formats to return: html, plaintext"`
}

func (a BrowseContentArgs) params() map[string]any {
	p := BrowseArgs{
		Include: a.Include,
		Fields:  a.Fields,
		Filter:  a.Filter,
		Limit:   a.Limit,
		Page:    a.Page,
		Order:   a.Order,
	}.params()
	p["formats"] = a.Formats
	return p
}

// BrowseArgs contains parameters for browsing authors, tags and tiers
type BrowseArgs struct {
	Include []string `json:"include,omitempty" jsonschema_description:"Relations to include, e.g. count.posts"`
	Fields  []string `json:"fields,omitempty" jsonschema_description:"Limit the response to these fields, e.g. name, slug"`
	Filter  string   `json:"filter,omitempty" jsonschema_description:"NQL filter, e.g. visibility:public"`
	Limit   int      `json:"limit,omitempty" jsonschema_description:"Items per page (Ghost default 15)"`
	Page    int      `json:"page,omitempty" jsonschema_description:"Page number, starting at 1"`
	Order   string   `json:"order,omitempty" jsonschema_description:"Sort order, e.g. name asc"`
}

func (a BrowseArgs) params() map[string]any {
	return map[string]any{
		"include": a.Include,
		"fields":  a.Fields,
		"filter":  optString(a.Filter),
		"limit":   optInt(a.Limit),
		"page":    optInt(a.Page),
		"order":   optString(a.Order),
	}
}

// ReadContentByIDArgs contains parameters for reading a post or page by id
type ReadContentByIDArgs struct {
	ID      string   `json:"id" jsonschema:"required" jsonschema_description:"Ghost object id"`
	Include []string `json:"include,omitempty" jsonschema_description:"Relations to include, e.g. authors, tags"`
	Fields  []string `json:"fields,omitempty" jsonschema_description:"Limit the response to these fields"`
	Formats []string `json:"formats,omitempty" jsonschema_description:"Content formats to return: html, plaintext"`
}

// ReadContentBySlugArgs contains parameters for reading a post or page by slug
type ReadContentBySlugArgs struct {
	Slug    string   `json:"slug" jsonschema:"required" jsonschema_description:"URL slug, e.g. welcome"`
	Include []string `json:"include,omitempty" jsonschema_description:"Relations to include, e.g. authors, tags"`
	Fields  []string `json:"fields,omitempty" jsonschema_description:"Limit the response to these fields"`
	Formats []string `json:"formats,omitempty" jsonschema_description:"Content formats to return: html, plaintext"`
}

// ReadByIDArgs contains parameters for reading an author or tag by id
type ReadByIDArgs struct {
	ID      string   `json:"id" jsonschema:"required" jsonschema_description:"Ghost object id"`
	Include []string `json:"include,omitempty" jsonschema_description:"Relations to include, e.g. count.posts"`
	Fields  []string `json:"fields,omitempty" jsonschema_description:"Limit the response to these fields"`
}

// ReadBySlugArgs contains parameters for reading an author or tag by slug
type ReadBySlugArgs struct {
	Slug    string   `json:"slug" jsonschema:"required" jsonschema_description:"URL slug, e.g. getting-started"`
	Include []string `json:"include,omitempty" jsonschema_description:"Relations to include, e.g. count.posts"`
	Fields  []string `json:"fields,omitempty" jsonschema_description:"Limit the response to these fields"`
}

// BrowseSettingsArgs is empty: the settings endpoint takes no parameters
type BrowseSettingsArgs struct{}

func readParams(include, fields []string) map[string]any {
	return map[string]any{
		"include": include,
		"fields":  fields,
	}
}

func readContentParams(include, fields, formats []string) map[string]any {
	p := readParams(include, fields)
	p["formats"] = formats
	return p
}

// optString maps the zero value to nil so the parameter is omitted
func optString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// optInt maps the zero value to nil so the parameter is omitted
func optInt(n int) any {
	if n == 0 {
		return nil
	}
	return n
}
