package client

import (
	"context"
	"strings"

	ai "github.com/spetersoncode/pkextract"
	"github.com/spetersoncode/pkextract/schema"
)

// Complete implements pkextract.Completer. The request is flattened into
// [system, instruction, extra...] and sent with the response schema attached.
// When a schema is requested the answer is checked against it; a
// nonconforming answer is returned together with a schema-category error so
// the caller can still account for its token usage.
//
// Every failure is reported as a *pkextract.ClientError.
func (c *Client) Complete(ctx context.Context, req ai.CompletionRequest, opts ...ai.Option) (*ai.Completion, error) {
	if req.Schema != nil {
		opts = append(opts, ai.WithResponseSchema(*req.Schema))
	}

	resp, err := c.Chat(ctx, req.Messages(), opts...)
	if err != nil {
		return nil, &ai.ClientError{Op: "complete", Err: err}
	}

	content := resp.Content
	if req.Schema == nil {
		return &ai.Completion{Content: content, Usage: resp.Usage}, nil
	}

	content = stripCodeFence(content)
	out := &ai.Completion{Content: content, Usage: resp.Usage}
	if err := schema.Validate(req.Schema.Schema, content); err != nil {
		return out, &ai.ClientError{
			Op:  "complete",
			Err: ai.NewSchemaError("answer does not match response schema "+req.Schema.Name, err),
		}
	}
	return out, nil
}

// stripCodeFence removes a surrounding ```json fence that some models emit
// even in JSON mode.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

var _ ai.Completer = (*Client)(nil)
