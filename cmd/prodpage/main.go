// Command prodpage runs the content pipeline once: it reads a product
// JSON file, generates the product page, FAQ and comparison artifacts,
// writes them to the output directory, and prints a short summary.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/yangwenmai/prodpage/internal/config"
	"github.com/yangwenmai/prodpage/internal/engine"
	"github.com/yangwenmai/prodpage/internal/ingest"
	"github.com/yangwenmai/prodpage/internal/render"
)

func main() {
	cfg := config.Load()

	input := flag.String("input", "", "path to the product JSON input file (required)")
	outdir := flag.String("outdir", cfg.OutDir, "output directory")
	maxRetries := flag.Int("max-retries", cfg.MaxRetries, "regeneration loops allowed after a failed validation")
	fetchDescription := flag.Bool("fetch-description", false, "fetch a missing description from metadata.source_url")
	flag.Parse()

	if *input == "" {
		fmt.Fprintln(os.Stderr, "usage: prodpage -input product.json [-outdir out]")
		os.Exit(2)
	}

	ctx := context.Background()

	product, err := ingest.FromFile(*input)
	if err != nil {
		log.Fatalf("ingest: %v", err)
	}

	if *fetchDescription {
		extractor := ingest.NewDescriptionExtractor()
		if product, err = extractor.Enrich(ctx, product); err != nil {
			log.Printf("warning: %v", err)
		}
	}

	pipeline := engine.NewPipeline(
		engine.NewCollaborator(newModelClient(cfg)),
		engine.Config{MaxRetries: *maxRetries},
	)

	state, err := pipeline.Run(ctx, product)
	if err != nil {
		log.Fatalf("pipeline: %v", err)
	}

	if !state.Valid {
		fmt.Println("\nPipeline finished: INVALID.")
		fmt.Println("Reasons:", state.Reason())
		os.Exit(1)
	}

	if err := render.WriteOutputs(state.Page, state.FAQ, state.Comparison, *outdir); err != nil {
		log.Fatalf("write outputs: %v", err)
	}

	fmt.Println("\nPipeline finished.")
	fmt.Println("Output Directory:", *outdir)
	fmt.Println("Product Title:", state.Page.Title)
	fmt.Println("FAQ Count:", len(state.FAQ))
	fmt.Println("Comparison Verdict:", state.Comparison.Verdict)
}

func newModelClient(cfg config.Config) engine.ModelClient {
	if cfg.UseStubs() {
		log.Printf("no API key for provider %q, using stub model client", cfg.LLMProvider)
		return &engine.StubModelClient{}
	}
	switch cfg.LLMProvider {
	case "claude":
		return engine.NewClaudeClient(cfg.AnthropicKey, engine.WithClaudeModel(cfg.AnthropicModel))
	case "ollama":
		return engine.NewOllamaClient(cfg.OllamaURL, engine.WithOllamaModel(cfg.OllamaModel))
	default:
		return engine.NewOpenAIClient(cfg.OpenAIKey, engine.WithModel(cfg.OpenAIModel))
	}
}
