// Package model lists the chat models the extractor is used with, their
// providers and their per-token pricing.
//
// Known models are package variables:
//
//	c := client.New(client.Config{
//		APIKeys:  client.APIKeys{OpenAI: key},
//		Defaults: client.Defaults{Chat: model.GPT41Mini},
//	})
//
// Any other identifier can be resolved with Parse, which infers the provider
// from the name. Identifiers prefixed with "ollama/" are routed to a local
// OpenAI-compatible endpoint.
//
// Batch runs report spend with ChatModel.Cost.
package model
