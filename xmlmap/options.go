package xmlmap

import (
	"log/slog"
	"maps"
	"reflect"

	"github.com/signadot/dcxml/config"
	"github.com/signadot/dcxml/contract"
)

// Option configures a Writer, a Reader or Inspect.
type Option interface {
	apply(*codecConfig)
}

// RegistryOption configures a Registry.
type RegistryOption interface {
	applyRegistry(*Registry)
}

// codecConfig holds the configuration of one Writer or Reader.
type codecConfig struct {
	registry *Registry
	maxItems int
	indent   string
	logger   *slog.Logger
}

func newCodecConfig(opts []Option) *codecConfig {
	cfg := &codecConfig{maxItems: config.DefaultMaxItems}
	for _, opt := range opts {
		opt.apply(cfg)
	}
	if cfg.registry == nil {
		cfg.registry = DefaultRegistry()
	}
	if cfg.logger == nil {
		cfg.logger = cfg.registry.log
	}
	return cfg
}

type optionFunc func(*codecConfig)

func (f optionFunc) apply(c *codecConfig) { f(c) }

type registryOptionFunc func(*Registry)

func (f registryOptionFunc) applyRegistry(r *Registry) { f(r) }

// WithRegistry selects the registry maps are taken from. The default is
// DefaultRegistry().
func WithRegistry(r *Registry) Option {
	return optionFunc(func(c *codecConfig) { c.registry = r })
}

// WithMaxItems sets the element ceiling of one call. Zero disables it.
func WithMaxItems(n int) Option {
	return optionFunc(func(c *codecConfig) { c.maxItems = n })
}

// WithIndent indents written documents with the given string per level.
func WithIndent(indent string) Option {
	return optionFunc(func(c *codecConfig) { c.indent = indent })
}

// WithSettings applies loaded settings. Namespace mappings belong to the
// registry and are applied with WithNamespaces.
func WithSettings(s *config.Settings) Option {
	return optionFunc(func(c *codecConfig) {
		if s == nil {
			return
		}
		c.maxItems = s.MaxItems
		c.indent = s.Indent
	})
}

// LoggerOption sets the logger of a registry or a codec call.
type LoggerOption struct {
	logger *slog.Logger
}

func (o LoggerOption) apply(c *codecConfig)       { c.logger = o.logger }
func (o LoggerOption) applyRegistry(r *Registry) { r.log = o.logger }

// WithLogger sets the logger. It is accepted both by NewRegistry and by the
// codec entry points.
func WithLogger(l *slog.Logger) LoggerOption {
	return LoggerOption{logger: l}
}

// WithNamespace maps the Go package path pkgPath to a contract namespace,
// replacing the derived default namespace for its types.
func WithNamespace(pkgPath, namespace string) RegistryOption {
	return registryOptionFunc(func(r *Registry) { r.namespaces[pkgPath] = namespace })
}

// WithNamespaces applies several package path mappings at once.
func WithNamespaces(m map[string]string) RegistryOption {
	return registryOptionFunc(func(r *Registry) { maps.Copy(r.namespaces, m) })
}

// WithContract supplies the declaration of a struct type explicitly,
// replacing whatever its tags describe.
func WithContract(t reflect.Type, decl *contract.Declaration) RegistryOption {
	return registryOptionFunc(func(r *Registry) { r.decls[indirect(t)] = decl })
}
