package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "docatlas"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	stageDuration     *prom.HistogramVec
	buildDuration     prom.Histogram
	stageResults      *prom.CounterVec
	buildOutcome      *prom.CounterVec
	fetchDuration     *prom.HistogramVec
	fetchRetries      *prom.CounterVec
	filesClassified   *prom.CounterVec
	filesDropped      prom.Counter
	unresolved        *prom.CounterVec
	brokenLinks       prom.Counter
	componentVersions prom.Gauge
}

// NewPrometheusRecorder constructs the collectors and registers them on reg.
// A nil reg gets a fresh registry.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		stageDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Duration of individual build stages",
			Buckets:   prom.DefBuckets,
		}, []string{"stage"}),
		buildDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "build_duration_seconds",
			Help:      "Total build duration",
			Buckets:   prom.DefBuckets,
		}),
		stageResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "stage_results_total",
			Help:      "Stage result counts by outcome",
		}, []string{"stage", "result"}),
		buildOutcome: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "build_outcomes_total",
			Help:      "Build outcomes by final status",
		}, []string{"outcome"}),
		fetchDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "fetch_duration_seconds",
			Help:      "Duration of content source clone or fetch operations",
			Buckets:   prom.DefBuckets,
		}, []string{"source", "result"}),
		fetchRetries: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "fetch_retries_total",
			Help:      "Retried clone or fetch attempts",
		}, []string{"source"}),
		filesClassified: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "files_classified_total",
			Help:      "Aggregated files added to the catalog by family",
		}, []string{"family"}),
		filesDropped: prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "files_dropped_total",
			Help:      "Aggregated files outside the content structure",
		}),
		unresolved: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "unresolved_references_total",
			Help:      "References that did not resolve to a catalog file",
		}, []string{"kind"}),
		brokenLinks: prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "broken_links_total",
			Help:      "Site-relative links without a published target",
		}),
		componentVersions: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "component_versions",
			Help:      "Component versions in the last built catalog",
		}),
	}
	reg.MustRegister(pr.stageDuration, pr.buildDuration, pr.stageResults, pr.buildOutcome,
		pr.fetchDuration, pr.fetchRetries, pr.filesClassified, pr.filesDropped,
		pr.unresolved, pr.brokenLinks, pr.componentVersions)
	return pr
}

func (p *PrometheusRecorder) ObserveStageDuration(stage string, d time.Duration) {
	if p == nil {
		return
	}
	p.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObserveBuildDuration(d time.Duration) {
	if p == nil {
		return
	}
	p.buildDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncStageResult(stage string, result ResultLabel) {
	if p == nil {
		return
	}
	p.stageResults.WithLabelValues(stage, string(result)).Inc()
}

func (p *PrometheusRecorder) IncBuildOutcome(outcome string) {
	if p == nil {
		return
	}
	p.buildOutcome.WithLabelValues(outcome).Inc()
}

func (p *PrometheusRecorder) ObserveFetchDuration(source string, d time.Duration, success bool) {
	if p == nil {
		return
	}
	res := "failed"
	if success {
		res = "success"
	}
	p.fetchDuration.WithLabelValues(source, res).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncFetchRetry(source string) {
	if p == nil {
		return
	}
	p.fetchRetries.WithLabelValues(source).Inc()
}

func (p *PrometheusRecorder) IncFileClassified(family string) {
	if p == nil {
		return
	}
	p.filesClassified.WithLabelValues(family).Inc()
}

func (p *PrometheusRecorder) IncFileDropped() {
	if p == nil {
		return
	}
	p.filesDropped.Inc()
}

func (p *PrometheusRecorder) IncUnresolvedReference(kind string) {
	if p == nil {
		return
	}
	p.unresolved.WithLabelValues(kind).Inc()
}

func (p *PrometheusRecorder) IncBrokenLinks(n int) {
	if p == nil || n <= 0 {
		return
	}
	p.brokenLinks.Add(float64(n))
}

func (p *PrometheusRecorder) SetComponentVersions(n int) {
	if p == nil {
		return
	}
	p.componentVersions.Set(float64(n))
}
