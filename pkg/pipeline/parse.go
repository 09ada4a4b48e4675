package pipeline

import (
	"github.com/matzehuels/barh/pkg/config"
)

// Parse returns the chart description for opts. A supplied Config is
// validated as is; otherwise Source is decoded in SourceFormat.
func Parse(opts Options) (*config.Config, error) {
	if opts.Config != nil {
		if err := opts.Config.Validate(); err != nil {
			return nil, err
		}
		return opts.Config, nil
	}
	return config.Parse(opts.Source, opts.SourceFormat)
}
