package mcp

import (
	"context"

	"github.com/fwojciec/dtdocs"
)

// toolFunc executes one tool call. Tool handlers validate their own
// arguments and return plain text or an error; they never build protocol
// envelopes.
type toolFunc func(ctx context.Context, args map[string]any) (string, error)

// docTypeEnum lists the values accepted by search_by_topic's doc_type.
var docTypeEnum = []string{"api", "option", "event", "button", "manual", "example"}

// registerTools populates the ordered tool list and the name → handler
// table. The order is part of the tools/list contract.
func (s *Server) registerTools() {
	limitProp := Property{
		Type:        "number",
		Description: "Maximum number of results to return",
		Default:     dtdocs.DefaultSearchLimit,
	}

	s.tools = []Tool{
		{
			Name:        "search_datatables",
			Description: "Search the DataTables documentation for any topic, API method, option or feature.",
			InputSchema: InputSchema{
				Type: "object",
				Properties: map[string]Property{
					"query": {Type: "string", Description: "Search query"},
					"limit": limitProp,
				},
				Required: []string{"query"},
			},
		},
		{
			Name:        "get_function_details",
			Description: "Get full documentation for a named API method, option, event or button, including parameters, return type, examples and related items.",
			InputSchema: InputSchema{
				Type: "object",
				Properties: map[string]Property{
					"name": {Type: "string", Description: "Name of the item, e.g. ajax.reload() or serverSide"},
				},
				Required: []string{"name"},
			},
		},
		{
			Name:        "search_by_example",
			Description: "Search code examples in the DataTables documentation.",
			InputSchema: InputSchema{
				Type: "object",
				Properties: map[string]Property{
					"query":    {Type: "string", Description: "Search query matched against example code and descriptions"},
					"language": {Type: "string", Description: "Restrict to a language, e.g. js or php"},
					"limit":    limitProp,
				},
				Required: []string{"query"},
			},
		},
		{
			Name:        "search_by_topic",
			Description: "Search the documentation narrowed to a section or document type.",
			InputSchema: InputSchema{
				Type: "object",
				Properties: map[string]Property{
					"query":    {Type: "string", Description: "Search query"},
					"section":  {Type: "string", Description: "Restrict to a documentation section"},
					"doc_type": {Type: "string", Description: "Restrict to a document type", Enum: docTypeEnum},
					"limit":    limitProp,
				},
				Required: []string{"query"},
			},
		},
		{
			Name:        "get_related_items",
			Description: "List items related to a named API method, option, event or button.",
			InputSchema: InputSchema{
				Type: "object",
				Properties: map[string]Property{
					"name":     {Type: "string", Description: "Name of the item"},
					"category": {Type: "string", Description: "Restrict to a category", Enum: []string{"api", "option", "event", "button"}},
				},
				Required: []string{"name"},
			},
		},
	}

	s.toolHandlers = map[string]toolFunc{
		"search_datatables":    s.toolSearchDataTables,
		"get_function_details": s.toolGetFunctionDetails,
		"search_by_example":    s.toolSearchByExample,
		"search_by_topic":      s.toolSearchByTopic,
		"get_related_items":    s.toolGetRelatedItems,
	}
}

func (s *Server) toolSearchDataTables(ctx context.Context, args map[string]any) (string, error) {
	query, err := requiredStringArg(args, "query")
	if err != nil {
		return "", err
	}

	results, err := s.search.Search(ctx, dtdocs.SearchFilter{
		Query: dtdocs.SanitizeQuery(query),
		Limit: limitArg(args),
	})
	if err != nil {
		return "", err
	}

	return dtdocs.FormatSearchResults(results), nil
}

func (s *Server) toolGetFunctionDetails(ctx context.Context, args map[string]any) (string, error) {
	name, err := requiredStringArg(args, "name")
	if err != nil {
		return "", err
	}

	details, err := s.search.FindDetailsByName(ctx, name)
	if err != nil {
		return "", err
	}

	return dtdocs.FormatDocDetails(details), nil
}

func (s *Server) toolSearchByExample(ctx context.Context, args map[string]any) (string, error) {
	query, err := requiredStringArg(args, "query")
	if err != nil {
		return "", err
	}

	results, err := s.search.SearchExamples(ctx, dtdocs.SanitizeQuery(query), stringArg(args, "language"), limitArg(args))
	if err != nil {
		return "", err
	}

	return dtdocs.FormatExampleResults(results), nil
}

func (s *Server) toolSearchByTopic(ctx context.Context, args map[string]any) (string, error) {
	query, err := requiredStringArg(args, "query")
	if err != nil {
		return "", err
	}

	filter := dtdocs.SearchFilter{
		Query: dtdocs.SanitizeQuery(query),
		Limit: limitArg(args),
	}

	if section := stringArg(args, "section"); section != "" {
		filter.Section = &section
	}
	if raw := stringArg(args, "doc_type"); raw != "" {
		docType, err := parseDocType(raw)
		if err != nil {
			return "", err
		}
		filter.DocType = &docType
	}

	results, err := s.search.Search(ctx, filter)
	if err != nil {
		return "", err
	}

	return dtdocs.FormatSearchResults(results), nil
}

func (s *Server) toolGetRelatedItems(ctx context.Context, args map[string]any) (string, error) {
	name, err := requiredStringArg(args, "name")
	if err != nil {
		return "", err
	}

	items, err := s.search.FindRelated(ctx, name, stringArg(args, "category"))
	if err != nil {
		return "", err
	}

	return dtdocs.FormatRelatedItems(name, items), nil
}

// requiredStringArg returns the named argument, failing if it is missing,
// not a string, or empty.
func requiredStringArg(args map[string]any, name string) (string, error) {
	value, ok := args[name].(string)
	if !ok || value == "" {
		return "", dtdocs.Errorf(dtdocs.EINVALID, "%s parameter is required", name)
	}
	return value, nil
}

// stringArg returns the named optional argument, or "" if absent or not a
// string.
func stringArg(args map[string]any, name string) string {
	value, _ := args[name].(string)
	return value
}

// limitArg returns the limit argument, defaulting when absent or invalid.
// JSON numbers decode as float64.
func limitArg(args map[string]any) int {
	value, ok := args["limit"].(float64)
	if !ok || value <= 0 {
		return dtdocs.DefaultSearchLimit
	}
	return int(value)
}

// parseDocType validates a doc_type argument against the schema enum.
func parseDocType(raw string) (dtdocs.DocType, error) {
	for _, v := range docTypeEnum {
		if raw == v {
			return dtdocs.DocType(raw), nil
		}
	}
	return "", dtdocs.Errorf(dtdocs.EINVALID, "invalid doc_type: %s", raw)
}
