package graph

import (
	"encoding/json"
	"maps"

	"github.com/stackpile/graphzep/pkg/messaging"
)

const (
	// SourceText treats the episode body as plain text.
	SourceText = "text"

	// SourceJSON treats the episode body as a JSON value.
	SourceJSON = "json"

	// SourceMessage treats the episode body as one or more pre-structured
	// role/content messages.
	SourceMessage = "message"
)

const defaultRole = "user"

// buildMessages turns an episode body into the messages to append, per the
// declared source format. Every message carries its own copy of the shared
// metadata envelope. Parse failures never error; they fall back to a single
// verbatim user message.
func buildMessages(source, body string, envelope map[string]any) []messaging.Message {
	switch source {
	case SourceMessage:
		return messagesFromStructured(body, envelope)
	case SourceJSON:
		return []messaging.Message{{
			Role:     defaultRole,
			Content:  canonicalJSON(body),
			Metadata: maps.Clone(envelope),
		}}
	default:
		return []messaging.Message{{
			Role:     defaultRole,
			Content:  body,
			Metadata: maps.Clone(envelope),
		}}
	}
}

// messagesFromStructured parses the body as either a list of messages or a
// single message object. Anything else degrades to one verbatim message.
func messagesFromStructured(body string, envelope map[string]any) []messaging.Message {
	var parsed any
	if err := json.Unmarshal([]byte(body), &parsed); err != nil {
		parsed = nil
	}

	switch v := parsed.(type) {
	case []any:
		var msgs []messaging.Message
		for _, item := range v {
			obj, ok := item.(map[string]any)
			if !ok {
				continue
			}
			msgs = append(msgs, messageFromObject(obj, envelope))
		}
		return msgs
	case map[string]any:
		_, hasRole := v["role"]
		_, hasContent := v["content"]
		if hasRole || hasContent {
			return []messaging.Message{messageFromObject(v, envelope)}
		}
	}

	return []messaging.Message{{
		Role:     defaultRole,
		Content:  body,
		Metadata: maps.Clone(envelope),
	}}
}

func messageFromObject(obj map[string]any, envelope map[string]any) messaging.Message {
	role, _ := obj["role"].(string)
	if role == "" {
		role = defaultRole
	}
	return messaging.Message{
		Role:     role,
		Content:  stringifyContent(obj["content"]),
		Metadata: maps.Clone(envelope),
	}
}

// stringifyContent passes strings through and serializes everything else
// as JSON, including absent content (which serializes to "null").
func stringifyContent(value any) string {
	if s, ok := value.(string); ok {
		return s
	}
	encoded, err := json.Marshal(value)
	if err != nil {
		return ""
	}
	return string(encoded)
}

// canonicalJSON re-serializes a JSON body into its canonical form, or
// returns the body unchanged when it doesn't parse.
func canonicalJSON(body string) string {
	var parsed any
	if err := json.Unmarshal([]byte(body), &parsed); err != nil {
		return body
	}
	encoded, err := json.Marshal(parsed)
	if err != nil {
		return body
	}
	return string(encoded)
}
