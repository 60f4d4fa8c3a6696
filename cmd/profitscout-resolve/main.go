// profitscout-resolve answers dataset lookups from the command line against
// the same object store and analytical store the API reads.
//
//	profitscout-resolve                                 list datasets
//	profitscout-resolve --dataset sec-mda               list items
//	profitscout-resolve --dataset sec-mda --id AAL      print the item
//	profitscout-resolve --dataset sec-mda --id AAL --locate
//
// Backend settings default to the SERVICE_* environment the API uses;
// flags override them
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"profitscout/internal/core/artifact"
	"profitscout/internal/core/policy"
	"profitscout/internal/core/version"
	"profitscout/internal/platform/config"
	perr "profitscout/internal/platform/errors"
	"profitscout/internal/platform/logger"
	"profitscout/internal/platform/metrics"
	"profitscout/internal/platform/store"
	"profitscout/internal/services/api/datasets/domain"
	drepo "profitscout/internal/services/api/datasets/repo"
	dsvc "profitscout/internal/services/api/datasets/service"
	sigrepo "profitscout/internal/services/api/signals/repo"
	sigsvc "profitscout/internal/services/api/signals/service"

	"github.com/spf13/pflag"
)

type options struct {
	dataset      string
	id           string
	asOf         string
	format       string
	optionType   string
	expiration   string
	topN         int
	locate       bool
	skipManifest bool

	policyFile string
	driver     string
	dir        string
	bucket     string
	natsURL    string
	chURL      string
}

func main() {
	lopt := logger.FromEnv()
	lopt.Writer = os.Stderr
	if lopt.Service == "" {
		lopt.Service = "profitscout-resolve"
	}
	logger.Init(lopt)

	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(exitCode(err))
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	var o options
	fs := pflag.NewFlagSet("profitscout-resolve", pflag.ContinueOnError)
	fs.StringVarP(&o.dataset, "dataset", "d", "", "dataset name; empty lists datasets")
	fs.StringVarP(&o.id, "id", "i", "", "item id (ticker); empty lists the dataset")
	fs.StringVar(&o.asOf, "as-of", "latest", "YYYY-MM-DD or latest")
	fs.StringVarP(&o.format, "format", "f", "json", "json, md or raw")
	fs.StringVar(&o.optionType, "option-type", "", "CALL, PUT or ANY (query datasets)")
	fs.StringVar(&o.expiration, "expiration", "", "YYYY-MM-DD expiration (query datasets)")
	fs.IntVar(&o.topN, "top-n", 0, "row count for query datasets; 0 uses the policy default")
	fs.BoolVar(&o.locate, "locate", false, "print the resolved object instead of its content")
	fs.BoolVar(&o.skipManifest, "skip-manifest", false, "ignore manifests and scan the catalog")
	fs.StringVar(&o.policyFile, "policy", "", "policy file (.yaml or .jsonc)")
	fs.StringVar(&o.driver, "driver", "", "object store driver: fs, gcs or nats")
	fs.StringVar(&o.dir, "dir", "", "fs driver root directory")
	fs.StringVar(&o.bucket, "bucket", "", "gcs bucket or nats object store name")
	fs.StringVar(&o.natsURL, "nats-url", "", "nats server url")
	fs.StringVar(&o.chURL, "clickhouse-url", "", "clickhouse dsn for query-backed datasets")
	showVersion := fs.Bool("version", false, "print version and exit")

	if err := fs.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}
	if *showVersion {
		return writeJSON(out, version.Info())
	}
	if rest := fs.Args(); len(rest) > 0 {
		return perr.Validationf("unexpected argument: %s", rest[0])
	}
	if !artifact.ValidAsOf(o.asOf) {
		return perr.WithField(perr.Validationf("as-of must be 'latest' or a YYYY-MM-DD date"), "as-of")
	}

	pol := policy.Default()
	if o.policyFile != "" {
		p, err := policy.Load(o.policyFile)
		if err != nil {
			return err
		}
		pol = p
	}

	cfg := o.storeConfig(store.FromEnv(config.New(), "profitscout", "resolve"))
	st, err := store.Open(ctx, cfg, store.WithLogger(*logger.Get()))
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUnavailable, "open backends")
	}
	defer func() { _ = st.Close(context.Background()) }()

	svc := build(st, pol, o.skipManifest)
	return o.resolve(ctx, svc, out)
}

// storeConfig overlays the flags that were set onto the environment config
func (o options) storeConfig(cfg store.Config) store.Config {
	cfg.PG.Enabled = false
	if o.driver != "" {
		cfg.Obj.Driver = o.driver
	}
	if o.dir != "" {
		cfg.Obj.Dir = o.dir
	}
	if o.bucket != "" {
		cfg.Obj.Bucket = o.bucket
	}
	if o.natsURL != "" {
		cfg.NATS.URL = o.natsURL
	}
	cfg.Obj.Enabled = cfg.Obj.Enabled || o.dir != "" || o.bucket != ""
	if o.chURL != "" {
		cfg.CH.URL = o.chURL
		cfg.CH.Enabled = true
	}
	return cfg
}

func build(st *store.Store, pol policy.Policy, skipManifest bool) *dsvc.Svc {
	mx := metrics.New()
	opts := dsvc.Options{Policy: pol, Metrics: mx}
	if st.Obj != nil {
		opts.Bucket = st.Obj
		if !skipManifest {
			opts.Manifests = drepo.NewObjectManifests(st.Obj)
		}
	}
	if st.CH != nil {
		opts.Signals = sigsvc.New(sigrepo.NewCH(st.CH), pol, mx)
	}
	return dsvc.New(opts)
}

func (o options) resolve(ctx context.Context, svc *dsvc.Svc, out io.Writer) error {
	switch {
	case o.dataset == "":
		list, err := svc.Datasets(ctx)
		if err != nil {
			return err
		}
		return writeJSON(out, list)

	case o.id == "":
		p, err := svc.List(ctx, domain.ListInput{
			Dataset:    o.dataset,
			AsOf:       o.asOf,
			Format:     o.format,
			OptionType: o.optionType,
			TopN:       o.topN,
		})
		if err != nil {
			return err
		}
		return writePayload(out, p)

	case o.locate:
		loc := svc.Locator()
		if loc == nil {
			return perr.Unavailablef("object store disabled")
		}
		res, err := loc.Resolve(ctx, dsvc.Lookup{
			Dataset:      o.dataset,
			ID:           artifact.NormalizeID(o.id),
			AsOf:         o.asOf,
			SkipManifest: o.skipManifest,
		})
		if err != nil {
			return err
		}
		return writeJSON(out, res)

	default:
		p, err := svc.Item(ctx, domain.ItemInput{
			Dataset:        o.dataset,
			ID:             o.id,
			AsOf:           o.asOf,
			Format:         o.format,
			OptionType:     o.optionType,
			ExpirationDate: o.expiration,
			TopN:           o.topN,
		})
		if err != nil {
			return err
		}
		return writePayload(out, p)
	}
}

func writePayload(out io.Writer, p domain.Payload) error {
	if p.IsRaw() {
		_, err := out.Write(p.Raw)
		return err
	}
	return writeJSON(out, p.JSON)
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// exitCode maps error classes onto distinct exit statuses for scripts
func exitCode(err error) int {
	if perr.Retryable(err) {
		return 4
	}
	switch perr.CodeOf(err) {
	case perr.ErrorCodeNotFound:
		return 3
	case perr.ErrorCodeValidation, perr.ErrorCodeUnsupportedFormat:
		return 2
	default:
		return 1
	}
}
