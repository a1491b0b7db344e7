package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/blogctl/internal/blogapi"
	"github.com/mesh-intelligence/blogctl/internal/httpclient"
	"github.com/mesh-intelligence/blogctl/internal/media"
	"github.com/mesh-intelligence/blogctl/internal/render"
	"github.com/mesh-intelligence/blogctl/internal/session"
	"github.com/mesh-intelligence/blogctl/pkg/imageref"
	"github.com/mesh-intelligence/blogctl/pkg/sqlite"
	"github.com/mesh-intelligence/blogctl/pkg/types"
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	dataDir   string
	jsonMode  bool
	plain     bool
	wrap      int
	logLevel  string
}

// app is the per-invocation state built by the root command and handed to
// subcommands through the command context.
type app struct {
	flags rootFlags

	configDir string
	dataDir   string
	cfg       types.Config

	resolver imageref.Resolver
	out      *render.Renderer

	store    *session.Store
	api      *blogapi.Client
	uploader *media.Uploader
}

type appKey struct{}

func withApp(ctx context.Context, a *app) context.Context {
	return context.WithValue(ctx, appKey{}, a)
}

// appFrom returns the app stored by the root command.
func appFrom(cmd *cobra.Command) *app {
	a, _ := cmd.Context().Value(appKey{}).(*app)
	return a
}

// setup finishes building a once configuration is known.
func (a *app) setup(cfg types.Config, out io.Writer) error {
	a.cfg = cfg
	a.resolver = imageref.New(cfg.Media.DeliveryHost, cfg.Media.CloudName)

	r, err := render.New(out, render.Options{JSON: a.flags.jsonMode, Plain: a.flags.plain, WordWrap: a.flags.wrap}, a.resolver, cfg.Image)
	if err != nil {
		return err
	}
	a.out = r

	hc := httpclient.New(httpclient.Config{Timeout: cfg.Timeout})
	a.api = blogapi.New(hc, cfg.APIURL, a.token)
	a.uploader = media.NewUploader(hc, cfg.Media.UploadEndpoint(), cfg.Media.UploadPreset, cfg.Media.CloudName)
	return nil
}

// session opens the local session store on first use.
func (a *app) session() (*session.Store, error) {
	if a.store != nil {
		return a.store, nil
	}
	if a.dataDir == "" {
		return nil, systemError(errors.New("data directory is not resolved"))
	}
	s, err := session.Open(sqlite.NewStore(), a.dataDir)
	if err != nil {
		return nil, systemError(fmt.Errorf("open local store: %w", err))
	}
	a.store = s
	return s, nil
}

// token is the blogapi.TokenSource for this invocation.
func (a *app) token() string {
	s, err := a.session()
	if err != nil {
		return ""
	}
	return s.Token()
}

// close releases the session store if it was opened.
func (a *app) close() error {
	if a.store == nil {
		return nil
	}
	err := a.store.Close()
	a.store = nil
	return err
}
