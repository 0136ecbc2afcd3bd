package convert

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/gosimple/slug"
	"go.uber.org/zap"

	"genjson/config"
	"genjson/source"
	"genjson/state"
)

const outputExt = ".json"

// buildOutputPath returns output file name. Destination which is not an
// existing directory is used as is. Otherwise file is placed into it and
// named either after the source or by the user-defined template. Name is
// cleaned up and if requested transliterated.
func buildOutputPath(t *source.Table, src, dst string, env *state.LocalEnv) string {
	if fi, err := os.Stat(dst); err != nil || !fi.IsDir() {
		return dst
	}

	defaultFile := buildDefaultFileName(src, env)
	if env.Cfg.Output.NameTemplate == "" {
		return filepath.Join(dst, defaultFile)
	}

	expandedName := expandOutputNameTemplate(t, src, env)
	if expandedName == "" {
		// fallback to default name if template expansion failed
		return filepath.Join(dst, defaultFile)
	}
	return filepath.Join(dst, cleanName(expandedName, env)+outputExt)
}

func buildDefaultFileName(src string, env *state.LocalEnv) string {
	return cleanName(strings.TrimSuffix(filepath.Base(src), filepath.Ext(src)), env) + outputExt
}

func expandOutputNameTemplate(t *source.Table, src string, env *state.LocalEnv) string {
	values := buildValues(t, src, env.RunID.String())
	expandedName, err := expandTemplate(config.OutputNameTemplateFieldName, env.Cfg.Output.NameTemplate, values)
	if err != nil {
		env.Log.Warn("Unable to prepare output filename", zap.Error(err))
		return ""
	}
	expandedName = strings.TrimSuffix(strings.TrimSpace(expandedName), outputExt)
	if expandedName == "" {
		env.Log.Warn("Output filename template expanded to empty name", zap.String("template", env.Cfg.Output.NameTemplate))
	}
	return expandedName
}

func cleanName(name string, env *state.LocalEnv) string {
	if env.Cfg.Output.FileNameTransliterate {
		name = slug.Make(name)
	}
	return config.CleanFileName(name)
}
