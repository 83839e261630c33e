// Package pkextract provides the shared vocabulary of an LLM-driven pipeline that
// extracts pharmacokinetic (PK) and pharmacoepidemiology (PE) tables from
// biomedical articles.
//
// The pipeline is a fixed graph of narrow steps (column categorization, drug
// matching, unit and value extraction, assembly, cleanup). Each model-backed
// step asks a [Completer] for schema-constrained output, validates it, and
// retries with the rejection message when the answer does not fit.
//
// # Core Types
//
//   - [Completer]: the structured completion capability every agent consumes
//   - [ChatProvider]: a raw chat backend (OpenAI, Anthropic, Gemini)
//   - [TokenUsage]: additive prompt/completion/total counters
//   - [ResponseSchema]: the JSON schema an answer must conform to
//
// # Basic Usage
//
//	c := client.New(client.Config{
//	    APIKeys:  client.APIKeys{OpenAI: os.Getenv("OPENAI_API_KEY")},
//	    Defaults: client.Defaults{Chat: model.GPT41Mini},
//	})
//
//	ex := pipeline.NewExtractor(c)
//	out, err := ex.ExtractPKSummary(ctx, pipeline.Input{
//	    Table:   src,
//	    Caption: "Table 2. Pharmacokinetic parameters of drug X",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(out.Table.Markdown())
//
// # Higher-Level Packages
//
//   - [github.com/spetersoncode/pkextract/agent]: retry-with-feedback around one model call
//   - [github.com/spetersoncode/pkextract/workflow]: steps, state and the DAG runner
//   - [github.com/spetersoncode/pkextract/table]: deterministic table reshaping
//   - [github.com/spetersoncode/pkextract/pipeline]: the PK and PE workflows
package pkextract
