// Copyright © 2024 The ELPS authors

package lsp

import (
	"context"
	"sync"

	"github.com/luthersystems/jsvet/diagnostic"
	"github.com/luthersystems/jsvet/lint"
	"github.com/luthersystems/jsvet/parser/lexer"
	"github.com/luthersystems/jsvet/parser/token"
	"github.com/luthersystems/jsvet/state"
)

// Document represents an open text document tracked by the LSP server.
type Document struct {
	mu      sync.Mutex
	URI     string
	Version int32
	Content string

	result *lint.Result
	tokens []*token.Token
}

// lint runs l over the document unless a result for the current content is
// cached.  The caller must hold d.mu.
func (d *Document) lint(ctx context.Context, l *lint.Linter) (*lint.Result, error) {
	if d.result != nil {
		return d.result, nil
	}
	res, err := l.LintFile(ctx, []byte(d.Content), uriToPath(d.URI))
	if err != nil {
		return nil, err
	}
	d.result = res
	return res, nil
}

// scan returns the document's significant tokens and comments, lexing the
// content on first use.  The caller must hold d.mu.
func (d *Document) scan(opts state.Options) []*token.Token {
	if d.tokens != nil {
		return d.tokens
	}
	lex := lexer.New(uriToPath(d.URI), d.Content, state.New(opts), diagnostic.Discard)
	lex.Start()
	d.tokens = []*token.Token{}
	for {
		tok := lex.Token(nil)
		switch tok.Type {
		case token.EOF, token.FATAL:
			return d.tokens
		case token.ENDLINE:
			continue
		}
		d.tokens = append(d.tokens, tok)
	}
}

func (d *Document) invalidate() {
	d.result = nil
	d.tokens = nil
}

// DocumentStore manages open documents with thread-safe access.
type DocumentStore struct {
	mu   sync.RWMutex
	docs map[string]*Document
}

// NewDocumentStore creates an empty document store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{docs: make(map[string]*Document)}
}

// Open adds a document to the store.
func (s *DocumentStore) Open(uri string, version int32, content string) *Document {
	doc := &Document{
		URI:     uri,
		Version: version,
		Content: content,
	}
	s.mu.Lock()
	s.docs[uri] = doc
	s.mu.Unlock()
	return doc
}

// Change updates a document's content (full sync) and drops cached results.
func (s *DocumentStore) Change(uri string, version int32, content string) *Document {
	s.mu.Lock()
	doc, ok := s.docs[uri]
	if !ok {
		doc = &Document{URI: uri}
		s.docs[uri] = doc
	}
	s.mu.Unlock()

	doc.mu.Lock()
	doc.Version = version
	doc.Content = content
	doc.invalidate()
	doc.mu.Unlock()
	return doc
}

// Close removes a document from the store.
func (s *DocumentStore) Close(uri string) {
	s.mu.Lock()
	delete(s.docs, uri)
	s.mu.Unlock()
}

// Get retrieves a document by URI. Returns nil if not found.
func (s *DocumentStore) Get(uri string) *Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.docs[uri]
}

// All returns the open documents in no particular order.
func (s *DocumentStore) All() []*Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	docs := make([]*Document, 0, len(s.docs))
	for _, d := range s.docs {
		docs = append(docs, d)
	}
	return docs
}
