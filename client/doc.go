// Package client provides a unified multi-provider client for structured
// completions.
//
// The Client wraps provider-specific implementations and provides:
//
//   - Model-centric routing: models know their provider; switching is automatic
//   - Automatic retries: exponential backoff for transient transport errors
//   - Schema checking: structured answers are validated before they are returned
//   - Event emission: observable operations via channel
//
// # Basic Usage
//
//	c := client.New(client.Config{
//	    APIKeys: client.APIKeys{
//	        OpenAI: os.Getenv("OPENAI_API_KEY"),
//	    },
//	    Defaults: client.Defaults{
//	        Chat: model.GPT41Mini,
//	    },
//	})
//
//	out, err := c.Complete(ctx, pkextract.CompletionRequest{
//	    System:      "You read pharmacokinetic tables.",
//	    Instruction: "List the drugs in this table: ...",
//	    Schema:      &pkextract.ResponseSchema{Name: "drugs", Schema: sch},
//	})
//
// # Local Models
//
// Point the OpenAI protocol at an Ollama server and use "ollama/" model ids:
//
//	c := client.New(client.Config{
//	    BaseURLs: client.BaseURLs{OpenAI: "http://localhost:11434/v1"},
//	    Defaults: client.Defaults{Chat: model.Parse("ollama/llama3.1")},
//	})
//
// # Pacing
//
// Paced spaces calls out for providers with tight quotas:
//
//	llm := client.Paced(c, 2*time.Second)
package client
