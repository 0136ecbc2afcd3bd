// Package convert glues source loading, normalization and output together
// behind convert subcommand.
package convert

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
	"unicode/utf8"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"genjson/common"
	"genjson/config"
	"genjson/normalize"
	"genjson/output"
	"genjson/record"
	"genjson/source"
	"genjson/state"
)

func Run(ctx context.Context, cmd *cli.Command) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("convert")

	src := cmd.Args().Get(0)
	if len(src) == 0 {
		return errors.New("no input source has been specified")
	}
	if src, err = filepath.Abs(src); err != nil {
		return err
	}

	dst := cmd.Args().Get(1)
	if len(dst) == 0 {
		return errors.New("no destination has been specified")
	}
	if dst, err = filepath.Abs(dst); err != nil {
		return err
	}
	if cmd.Args().Len() > 2 {
		log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[2:]))
	}

	opts, err := sourceOptions(cmd, env.Cfg, log)
	if err != nil {
		return err
	}
	fields := fieldsFromCommand(cmd, &env.Cfg.Fields)
	log.Debug("Column classification",
		zap.Strings("identifiers", fields.Columns(common.FieldKindIdentifier)),
		zap.Strings("lists", fields.Columns(common.FieldKindList)))
	norm := normalize.New(fields, env.Cfg.Fields.ListSeparator)

	env.Overwrite = cmd.Bool("overwrite")

	log.Info("Processing starting", zap.String("source", src), zap.String("destination", dst), zap.Stringer("run_id", env.RunID))
	defer func(start time.Time) {
		log.Info("Processing completed", zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	return process(ctx, src, dst, opts, norm, log)
}

// sourceOptions merges command line flags with configured source settings,
// flags win.
func sourceOptions(cmd *cli.Command, cfg *config.Config, log *zap.Logger) (source.Options, error) {
	opts := source.Options{
		Format:     cfg.Source.Format,
		Sheet:      cfg.Source.Sheet,
		Delimiter:  cfg.Source.CSV.DelimiterRune(),
		InferTypes: cfg.Source.CSV.InferTypes,
	}

	if cmd.IsSet("from") {
		format, err := common.ParseSourceFmt(cmd.String("from"))
		if err != nil {
			log.Warn("Unknown source format requested, using configured one", zap.Stringer("format", opts.Format), zap.Error(err))
		} else {
			opts.Format = format
		}
	}
	if cmd.IsSet("sheet") {
		opts.Sheet = cmd.String("sheet")
	}
	if cmd.IsSet("delimiter") {
		d := cmd.String("delimiter")
		if utf8.RuneCountInString(d) != 1 {
			return opts, fmt.Errorf("delimiter must be a single character, got %q", d)
		}
		r, _ := utf8.DecodeRuneInString(d)
		if r == '"' || r == '\r' || r == '\n' || r == utf8.RuneError {
			return opts, fmt.Errorf("character %q cannot be used as delimiter", d)
		}
		opts.Delimiter = r
	}

	cs := cfg.Source.CSV.Encoding
	if cmd.IsSet("encoding") {
		cs = cmd.String("encoding")
	}
	enc, err := source.LookupEncoding(cs)
	if err != nil {
		return opts, err
	}
	if enc != nil {
		log.Debug("Decoding delimited text", zap.String("charset", source.EncodingName(enc)))
	}
	opts.Encoding = enc
	return opts, nil
}

// fieldsFromCommand returns column classification. Columns named on the
// command line replace configured classification as a whole.
func fieldsFromCommand(cmd *cli.Command, cfg *config.FieldsConfig) normalize.Fields {
	if cmd.IsSet("identifier") || cmd.IsSet("list") {
		return normalize.NewFields(cmd.StringSlice("identifier"), cmd.StringSlice("list"))
	}
	return normalize.NewFields(cfg.Identifiers, cfg.Lists)
}

// process handles the core conversion logic independently of CLI framework:
// loads source, normalizes records and writes them to destination. "dst"
// is either output file or existing directory to put it in.
func process(ctx context.Context, src, dst string, opts source.Options, norm *normalize.Normalizer, log *zap.Logger) (rerr error) {
	env := state.EnvFromContext(ctx)

	var (
		outputName string
		table      *source.Table
	)

	log.Info("Conversion starting", zap.String("from", src))
	defer func(start time.Time) {
		if rerr != nil || table == nil {
			return
		}
		log.Info("Conversion completed",
			zap.Duration("elapsed", time.Since(start)),
			zap.String("to", outputName),
			zap.Stringer("format", table.Format),
			zap.String("sheet", table.Sheet),
			zap.Int("records", len(table.Records)),
			zap.Stringer("run_id", env.RunID))
	}(time.Now())

	// keep source as it was read for debugging, even if it cannot be loaded
	if env.Rpt != nil {
		if err := env.Rpt.StoreCopy("source"+filepath.Ext(src), src); err != nil {
			log.Debug("Unable to store source in the report", zap.Error(err))
		}
	}

	// only identifiers may arrive widened to numbers, list and opaque
	// columns keep their text
	opts.Numeric = func(column string) bool {
		return norm.Kind(column) == common.FieldKindIdentifier
	}

	t, err := source.Load(ctx, src, opts, log)
	if err != nil {
		return err
	}
	log.Debug("Source loaded", zap.Strings("header", t.Header), zap.Int("records", len(t.Records)))

	if err := ctx.Err(); err != nil {
		return err
	}
	records := norm.All(t.Records)

	if env.Rpt != nil {
		env.Rpt.StoreData("table.txt", []byte(t.String()))
		env.Rpt.StoreData("records.txt", []byte(record.Dump(records)))
	}

	outputName = buildOutputPath(t, src, dst, env)

	// Check if output file already exists
	if _, err := os.Stat(outputName); err == nil {
		if !env.Overwrite {
			return fmt.Errorf("output file already exists: %s", outputName)
		}
		log.Warn("Overwriting existing file", zap.String("file", outputName))
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("%w (%s): %w", output.ErrDestinationWrite, outputName, err)
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	if err := output.Write(outputName, records); err != nil {
		return err
	}
	table = t

	// Store conversion result for debugging
	if env.Rpt != nil {
		env.Rpt.Store("result.json", outputName)
	}
	return nil
}
