package pipeline

import (
	"context"
	"fmt"
	"sync"

	ai "github.com/spetersoncode/pkextract"
)

// reasoningCall names free-text calls made by the two-step mode.
const reasoningCall = "reasoning"

// scriptedCompleter answers by response schema name. The last answer of a
// script repeats once the script is used up.
type scriptedCompleter struct {
	mu       sync.Mutex
	scripts  map[string][]string
	requests map[string][]ai.CompletionRequest
}

func newScripted(scripts map[string][]string) *scriptedCompleter {
	return &scriptedCompleter{
		scripts:  scripts,
		requests: make(map[string][]ai.CompletionRequest),
	}
}

func (s *scriptedCompleter) Complete(_ context.Context, req ai.CompletionRequest, _ ...ai.Option) (*ai.Completion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	name := reasoningCall
	if req.Schema != nil {
		name = req.Schema.Name
	}
	s.requests[name] = append(s.requests[name], req)

	script, ok := s.scripts[name]
	if !ok {
		if name == reasoningCall {
			return &ai.Completion{Content: "Each row reports a mean with its SD.", Usage: ai.Usage(10, 5)}, nil
		}
		return nil, fmt.Errorf("unexpected call %q", name)
	}
	i := min(len(s.requests[name]), len(script)) - 1
	return &ai.Completion{Content: script[i], Usage: ai.Usage(10, 5)}, nil
}

func (s *scriptedCompleter) calls(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests[name])
}

func (s *scriptedCompleter) total() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, reqs := range s.requests {
		n += len(reqs)
	}
	return n
}

func (s *scriptedCompleter) last(name string) ai.CompletionRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	reqs := s.requests[name]
	return reqs[len(reqs)-1]
}
