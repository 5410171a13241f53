// Package lsp serves jnicall diagnostics, hovers and completions to editors
// over the Language Server Protocol.
package lsp

import (
	"errors"
	"go/scanner"
	"net/url"
	"path/filepath"
	"strings"
	"sync"

	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	_ "github.com/tliron/commonlog/simple"

	"github.com/dhamidi/jnicall/config"
	"github.com/dhamidi/jnicall/rewrite"
)

const lsName = "jnicall"

var log = commonlog.GetLogger("jnicall.lsp")

type document struct {
	path string
	file *rewrite.File
}

type Server struct {
	cfg     *config.Config
	handler protocol.Handler
	server  *server.Server
	version string

	mu   sync.Mutex
	docs map[string]*document
}

// NewServer creates a language server. A nil cfg is looked up from the
// workspace root on initialize.
func NewServer(version string, cfg *config.Config) *Server {
	ls := &Server{
		cfg:     cfg,
		version: version,
		docs:    map[string]*document{},
	}

	ls.handler = protocol.Handler{
		Initialize:             ls.initialize,
		Initialized:            ls.initialized,
		Shutdown:               ls.shutdown,
		SetTrace:               ls.setTrace,
		TextDocumentDidOpen:    ls.textDocumentDidOpen,
		TextDocumentDidChange:  ls.textDocumentDidChange,
		TextDocumentDidClose:   ls.textDocumentDidClose,
		TextDocumentDidSave:    ls.textDocumentDidSave,
		TextDocumentHover:      ls.textDocumentHover,
		TextDocumentCompletion: ls.textDocumentCompletion,
	}

	ls.server = server.NewServer(&ls.handler, lsName, false)

	return ls
}

func (ls *Server) RunStdio() error {
	return ls.server.RunStdio()
}

func (ls *Server) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	rootDir := "."
	if params.RootPath != nil && *params.RootPath != "" {
		rootDir = *params.RootPath
	} else if params.RootURI != nil && *params.RootURI != "" {
		if path, err := uriToPath(*params.RootURI); err == nil {
			rootDir = path
		}
	}

	if ls.cfg == nil {
		cfg, path, err := config.Find(rootDir)
		if err != nil {
			log.Errorf("%s", err.Error())
			cfg = config.Default()
		} else if path != "" {
			log.Infof("using %s", path)
		}
		ls.cfg = cfg
	}

	capabilities := ls.handler.CreateServerCapabilities()

	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    intPtr(int(protocol.TextDocumentSyncKindFull)),
		Save: &protocol.SaveOptions{
			IncludeText: boolPtr(true),
		},
	}

	capabilities.CompletionProvider = &protocol.CompletionOptions{
		TriggerCharacters: []string{"(", "<", ",", ">"},
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &ls.version,
		},
	}, nil
}

func (ls *Server) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	return nil
}

func (ls *Server) shutdown(ctx *glsp.Context) error {
	return nil
}

func (ls *Server) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (ls *Server) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	ls.update(ctx, params.TextDocument.URI, []byte(params.TextDocument.Text))
	return nil
}

func (ls *Server) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	if len(params.ContentChanges) > 0 {
		change := params.ContentChanges[len(params.ContentChanges)-1]
		if textChange, ok := change.(protocol.TextDocumentContentChangeEventWhole); ok {
			ls.update(ctx, params.TextDocument.URI, []byte(textChange.Text))
		}
	}
	return nil
}

func (ls *Server) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	ls.mu.Lock()
	delete(ls.docs, params.TextDocument.URI)
	ls.mu.Unlock()
	publish(ctx, params.TextDocument.URI, []protocol.Diagnostic{})
	return nil
}

func (ls *Server) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	if params.Text != nil {
		ls.update(ctx, params.TextDocument.URI, []byte(*params.Text))
	}
	return nil
}

func (ls *Server) config() *config.Config {
	if ls.cfg == nil {
		return config.Default()
	}
	return ls.cfg
}

// update rescans a document and publishes its diagnostics.
func (ls *Server) update(ctx *glsp.Context, uri string, content []byte) {
	path, err := uriToPath(uri)
	if err != nil {
		return
	}
	diags, file := ls.check(path, content)

	ls.mu.Lock()
	if file != nil {
		ls.docs[uri] = &document{path: path, file: file}
	} else if doc, ok := ls.docs[uri]; ok {
		// keep the last good scan for hovers while the file has Go errors
		doc.path = path
	}
	ls.mu.Unlock()

	publish(ctx, uri, diags)
}

func (ls *Server) check(path string, content []byte) ([]protocol.Diagnostic, *rewrite.File) {
	diags := []protocol.Diagnostic{}
	found, file, err := rewrite.Diagnose(path, content, ls.config())
	if err != nil {
		var list scanner.ErrorList
		if errors.As(err, &list) {
			for _, e := range list {
				diags = append(diags, goSyntaxDiagnostic(e))
			}
		}
		return diags, nil
	}
	for _, d := range found {
		diags = append(diags, toProtocolDiagnostic(d))
	}
	log.Debugf("%s: %d diagnostics", path, len(diags))
	return diags, file
}

func (ls *Server) document(uri string) *document {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	return ls.docs[uri]
}

func publish(ctx *glsp.Context, uri string, diags []protocol.Diagnostic) {
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diags,
	})
}

func uriToPath(uri string) (string, error) {
	if strings.HasPrefix(uri, "file://") {
		parsed, err := url.Parse(uri)
		if err != nil {
			return "", err
		}
		return filepath.Clean(parsed.Path), nil
	}
	return uri, nil
}

func boolPtr(b bool) *bool {
	return &b
}

func intPtr(i int) *protocol.TextDocumentSyncKind {
	v := protocol.TextDocumentSyncKind(i)
	return &v
}
