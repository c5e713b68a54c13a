package platform

import (
	"fmt"

	"github.com/aretw0/graft/pkg/adapters/filestore"
	"github.com/aretw0/graft/pkg/adapters/httpstore"
	"github.com/aretw0/graft/pkg/adapters/memstore"
	"github.com/aretw0/graft/pkg/adapters/sqlstore"
	"github.com/aretw0/graft/pkg/archive"
	"github.com/aretw0/graft/pkg/core"
)

// New builds a Service over the store selected by the options.
// The URI argument is adapter-specific: a file path for "file" and
// "sqlite", a base URL for "http", ignored for "mem".
func New(uri string, opts ...Option) (*core.Service, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	store, err := resolveStore(uri, o)
	if err != nil {
		return nil, err
	}

	svcOpts := []core.ServiceOption{}
	if o.logger != nil {
		svcOpts = append(svcOpts, core.WithServiceLogger(o.logger))
	}
	if o.checker != nil {
		svcOpts = append(svcOpts, core.WithChecker(o.checker))
	}
	return core.NewService(store, archive.NewArchiver(), svcOpts...), nil
}

// NewStore resolves a bare store without the service layer.
func NewStore(uri string, opts ...Option) (core.Store, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return resolveStore(uri, o)
}

func resolveStore(uri string, o *options) (core.Store, error) {
	if o.store != nil {
		return o.store, nil
	}

	switch o.adapter {
	case "mem":
		return memstore.New(), nil
	case "file":
		fsOpts := []filestore.Option{}
		if o.logger != nil {
			fsOpts = append(fsOpts, filestore.WithLogger(o.logger))
		}
		return filestore.New(uri, fsOpts...)
	case "sqlite":
		return sqlstore.New(uri)
	case "http":
		return httpstore.New(uri), nil
	default:
		return nil, fmt.Errorf("unknown store adapter %q", o.adapter)
	}
}
