package opts

import "sync"

// ProgramCache keeps compiled programs so a rule is parsed once per
// engine. Keys are engine-specific; values are the engine's program type.
type ProgramCache interface {
	Get(key string) (any, bool)
	Set(key string, value any)
}

// WithProgramCache shares cache with the rule checker's default engine.
func WithProgramCache(cache ProgramCache) Option {
	return func(cfg *optionsConfig) {
		cfg.programCache = cache
	}
}

// NewProgramCache returns an unbounded in-memory ProgramCache. Field rule
// sets are small and fixed, so nothing is evicted.
func NewProgramCache() ProgramCache {
	return &programMap{}
}

type programMap struct {
	entries sync.Map
}

func (c *programMap) Get(key string) (any, bool) {
	return c.entries.Load(key)
}

func (c *programMap) Set(key string, value any) {
	c.entries.Store(key, value)
}

// cachedProgram returns the P stored under key, compiling and storing it on
// a miss. A nil cache compiles every time. Entries of another type are
// treated as misses and replaced.
func cachedProgram[P any](cache ProgramCache, key string, compile func() (P, error)) (P, error) {
	if cache != nil {
		if hit, ok := cache.Get(key); ok {
			if program, ok := hit.(P); ok {
				return program, nil
			}
		}
	}
	program, err := compile()
	if err != nil {
		return program, err
	}
	if cache != nil {
		cache.Set(key, program)
	}
	return program, nil
}
