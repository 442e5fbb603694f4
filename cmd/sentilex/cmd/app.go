package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spacesedan/sentilex/config"
	"github.com/spacesedan/sentilex/internal/analysis"
	"github.com/spacesedan/sentilex/internal/chart"
	"github.com/spacesedan/sentilex/internal/clients"
	"github.com/spacesedan/sentilex/internal/clients/kafka_client"
	"github.com/spacesedan/sentilex/internal/db"
	"github.com/spacesedan/sentilex/internal/langdetect"
	"github.com/spacesedan/sentilex/internal/lexicon"
	"github.com/spacesedan/sentilex/internal/models"
	"github.com/spacesedan/sentilex/internal/monitoring"
	"github.com/spacesedan/sentilex/internal/recordlog"
	"github.com/spacesedan/sentilex/internal/sentiment"
)

const (
	capLexicon  = "lexicon"
	capDetector = "language-detector"
	capChart    = "chart-renderer"
	capLog      = "analysis-log"
	capValkey   = "valkey"
	capKafka    = "kafka"
	capDynamoDB = "dynamodb"

	detectorProbeText = "Halo dunia!"
)

// app holds the wired collaborators shared by every command.
type app struct {
	cfg      *config.Config
	analyzer *analysis.Analyzer
	journal  *recordlog.Journal
	valkey   *clients.ValkeyClient
	status   *monitoring.Status
	// monitored are re-probed while serving.
	monitored []monitoring.Capability
}

// newApp builds the analyzer and its log sinks, then runs the startup
// capability check. A missing required capability returns
// *monitoring.MissingCapabilityError.
func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	a := &app{cfg: cfg, status: monitoring.NewStatus()}

	lex, lexErr := lexicon.Load(cfg.Analysis.LexiconPath)

	var classifier *langdetect.Classifier
	languages, detErr := langdetect.ParseLanguages(cfg.Analysis.Languages)
	if detErr == nil {
		classifier, detErr = langdetect.NewClassifier(languages...)
	}

	csvLog := recordlog.NewCSVFile(cfg.Analysis.LogFile)
	logCap := monitoring.Capability{Name: capLog, Probe: csvLog.Probe}
	mirrors, mirrorCaps := a.connectMirrors(ctx)

	caps := []monitoring.Capability{
		{Name: capLexicon, Required: true, Probe: func(context.Context) error {
			if lexErr != nil {
				return lexErr
			}
			if len(lex.Positive()) == 0 && len(lex.Negative()) == 0 {
				return errors.New("lexicon has no terms")
			}
			return nil
		}},
		{Name: capDetector, Required: true, Probe: func(context.Context) error {
			if detErr != nil {
				return detErr
			}
			if code := classifier.Classify(detectorProbeText); code == langdetect.Unknown {
				return fmt.Errorf("could not classify %q", detectorProbeText)
			}
			return nil
		}},
		{Name: capChart, Probe: func(context.Context) error {
			_, err := chart.Result(models.LabelPositive, 1)
			return err
		}},
		logCap,
	}
	caps = append(caps, mirrorCaps...)

	if err := monitoring.CheckCapabilities(ctx, a.status, caps...); err != nil {
		_ = recordlog.NewJournal(csvLog, mirrors...).Close()
		return nil, err
	}

	a.journal = recordlog.NewJournal(csvLog, mirrors...)
	a.monitored = append([]monitoring.Capability{logCap}, mirrorCaps...)

	var opts []analysis.Option
	if cfg.Analysis.ReferenceScoring {
		opts = append(opts, analysis.WithReference(sentiment.NewReference()))
	}
	a.analyzer = analysis.New(lex, classifier, a.journal, opts...)

	slog.Info("[App] Analyzer ready",
		slog.String("log_file", csvLog.Path()),
		slog.Int("mirrors", len(mirrors)),
		slog.Bool("reference_scoring", cfg.Analysis.ReferenceScoring))
	return a, nil
}

// connectMirrors opens every enabled mirror sink. A mirror that cannot be
// opened is left out and reported as an unavailable optional capability.
func (a *app) connectMirrors(ctx context.Context) ([]recordlog.Sink, []monitoring.Capability) {
	var (
		sinks []recordlog.Sink
		caps  []monitoring.Capability
	)

	if a.cfg.Valkey.Enabled {
		vc, err := clients.NewValkeyClient(a.cfg.Valkey)
		if err != nil {
			caps = append(caps, failed(capValkey, err))
		} else {
			a.valkey = vc
			sinks = append(sinks, recordlog.NewValkeySink(vc))
			caps = append(caps, monitoring.Capability{Name: capValkey, Probe: vc.Ping})
		}
	}

	if a.cfg.Kafka.Enabled {
		producer, err := kafka_client.NewProducer(a.cfg.Kafka)
		if err != nil {
			caps = append(caps, failed(capKafka, err))
		} else {
			sinks = append(sinks, recordlog.NewKafkaSink(producer))
			caps = append(caps, monitoring.Capability{Name: capKafka, Probe: producer.Ping})
		}
	}

	if a.cfg.AWS.DynamoDBEnabled {
		client, err := clients.NewDynamoDBClient(ctx, a.cfg.AWS)
		if err != nil {
			caps = append(caps, failed(capDynamoDB, err))
		} else {
			sinks = append(sinks, recordlog.NewDynamoDBSink(client, a.cfg.AWS.DynamoDBTable))
			table := a.cfg.AWS.DynamoDBTable
			caps = append(caps, monitoring.Capability{Name: capDynamoDB, Probe: func(ctx context.Context) error {
				return db.ProbeTable(ctx, client, table)
			}})
		}
	}

	return sinks, caps
}

func failed(name string, err error) monitoring.Capability {
	return monitoring.Capability{Name: name, Probe: func(context.Context) error { return err }}
}

func (a *app) chartsEnabled() bool {
	return a.status.Snapshot()[capChart]
}

func (a *app) Close() {
	if a.journal == nil {
		return
	}
	if err := a.journal.Close(); err != nil {
		slog.Warn("[App] Failed to close log sinks", slog.String("error", err.Error()))
	}
}
