package analysis

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"
	"unicode/utf8"

	"ai-analyst/internal/cache"
	"ai-analyst/internal/config"
	"ai-analyst/internal/llm"
	"ai-analyst/internal/prompt"
	"ai-analyst/internal/storage"
)

// ClientFactory builds an LLM client for a session credential.
type ClientFactory interface {
	CreateClient(apiKey string) (llm.Client, error)
	ModelName() string
}

// Options selects the behaviour profile of the orchestrator.
type Options struct {
	MaxTokens        int
	Temperature      float32
	TopP             float32
	MinContentLength int
	UseCache         bool
	UseHistory       bool
	FullTrace        bool
}

func RichOptions() Options {
	return Options{
		MaxTokens:        1500,
		Temperature:      0.7,
		TopP:             0.9,
		MinContentLength: 10,
		UseCache:         true,
		UseHistory:       true,
		FullTrace:        true,
	}
}

func BasicOptions() Options {
	return Options{MaxTokens: 1500}
}

// OptionsFor maps a configured profile onto Options.
func OptionsFor(cfg *config.Config) Options {
	opts := RichOptions()
	if cfg.Profile == config.ProfileBasic {
		opts = BasicOptions()
	}
	if cfg.MaxTokens > 0 {
		opts.MaxTokens = cfg.MaxTokens
	}
	return opts
}

// Request is one user action asking for an analysis.
type Request struct {
	Content  string
	Category string
	// APIKey overrides the session credential when set.
	APIKey string
	// Source describes where the content came from, e.g. "uploaded JSON file".
	Source string
}

type Orchestrator struct {
	factory  ClientFactory
	catalog  *prompt.Catalog
	opts     Options
	recorder storage.Recorder
	now      func() time.Time
}

func New(factory ClientFactory, catalog *prompt.Catalog, opts Options, recorder storage.Recorder) *Orchestrator {
	return &Orchestrator{
		factory:  factory,
		catalog:  catalog,
		opts:     opts,
		recorder: recorder,
		now:      time.Now,
	}
}

func (o *Orchestrator) Catalog() *prompt.Catalog { return o.catalog }
func (o *Orchestrator) Options() Options         { return o.opts }

// Analyze runs one request against the session. It never returns an error:
// every failure is folded into the Result kind.
func (o *Orchestrator) Analyze(ctx context.Context, sess *Session, req Request) Result {
	start := o.now()
	sess.Touch(start)

	category := strings.TrimSpace(req.Category)
	if category == "" {
		category = o.catalog.Default()
	} else if name, ok := o.catalog.Canonical(category); ok {
		category = name
	}
	res := o.run(ctx, sess, req, category)
	res.Category = category
	res.Source = req.Source
	if res.OK() {
		sess.setCurrent(res)
	}

	o.record(sess, res, o.now().Sub(start))
	return res
}

func (o *Orchestrator) run(ctx context.Context, sess *Session, req Request, category string) Result {
	content := req.Content
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return Result{Kind: KindContentError, Text: MsgNoContent}
	}
	if o.opts.MinContentLength > 0 && utf8.RuneCountInString(trimmed) < o.opts.MinContentLength {
		return Result{Kind: KindContentError, Text: MsgTooShort}
	}

	var key string
	if o.opts.UseCache {
		key = cache.Key(content, category)
		if cached, ok := sess.Cache.Lookup(key); ok {
			return Result{Kind: KindOK, Text: cached, FromCache: true}
		}
	}

	apiKey := strings.TrimSpace(req.APIKey)
	if apiKey == "" {
		apiKey = sess.APIKey()
	}
	if apiKey == "" {
		return Result{Kind: KindConfigError, Text: MsgNoAPIKey}
	}

	resp, err := o.complete(ctx, apiKey, category, content)
	if err != nil {
		res := Result{Kind: KindRemoteFailure, Text: MsgFailurePrefix + err.Error()}
		if o.opts.FullTrace {
			res.Detail = errorTrace(err)
		}
		return res
	}

	if o.opts.UseCache {
		sess.Cache.Store(key, resp.Content)
	}
	if o.opts.UseHistory {
		sess.History.Add(category, content, resp.Content)
	}
	return Result{
		Kind:             KindOK,
		Text:             resp.Content,
		Model:            resp.Model,
		PromptTokens:     resp.PromptTokens,
		CompletionTokens: resp.CompletionTokens,
		TotalTokens:      resp.TotalTokens,
	}
}

func (o *Orchestrator) complete(ctx context.Context, apiKey, category, content string) (llm.Response, error) {
	client, err := o.factory.CreateClient(apiKey)
	if err != nil {
		return llm.Response{}, fmt.Errorf("create llm client: %w", err)
	}
	system, user := o.catalog.Build(category, content)
	resp, err := client.Generate(ctx, llm.Request{
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: system},
			{Role: llm.RoleUser, Content: user},
		},
		MaxTokens:   o.opts.MaxTokens,
		Temperature: o.opts.Temperature,
		TopP:        o.opts.TopP,
	})
	if err != nil {
		return llm.Response{}, err
	}
	if strings.TrimSpace(resp.Content) == "" {
		return llm.Response{}, errors.New("completion returned empty content")
	}
	return resp, nil
}

func (o *Orchestrator) record(sess *Session, res Result, took time.Duration) {
	log.Printf("analysis session=%s category=%q kind=%s from_cache=%t model=%s tokens=%d took=%s",
		sess.ID, res.Category, res.Kind, res.FromCache, res.Model, res.TotalTokens, took.Round(time.Millisecond))
	if o.recorder == nil {
		return
	}
	ev := storage.Event{
		Timestamp:        o.now().UTC(),
		SessionID:        sess.ID,
		Category:         res.Category,
		Outcome:          string(res.Kind),
		FromCache:        res.FromCache,
		Source:           res.Source,
		Model:            res.Model,
		PromptTokens:     res.PromptTokens,
		CompletionTokens: res.CompletionTokens,
		TotalTokens:      res.TotalTokens,
		DurationMS:       took.Milliseconds(),
	}
	if err := o.recorder.AppendEvent(ev); err != nil {
		log.Printf("failed to record usage event: %v", err)
	}
}

// errorTrace lists the wrapped error chain, outermost first.
func errorTrace(err error) string {
	var b strings.Builder
	b.WriteString("error chain:\n")
	for i := 0; err != nil; i++ {
		fmt.Fprintf(&b, "  #%d %T: %s\n", i, err, err.Error())
		err = errors.Unwrap(err)
	}
	return b.String()
}
