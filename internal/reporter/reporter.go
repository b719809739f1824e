package reporter

// Reporter defines the interface for progress reporting.
type Reporter interface {
	Hardware(summary HardwareSummary)
	Source(summary SourceSummary)
	Plan(summary PlanSummary)
	EncoderConfig(summary EncoderConfigSummary)
	SegmentStarted(info SegmentStartInfo)
	SegmentProgress(progress ProgressSnapshot)
	SegmentComplete(outcome SegmentOutcome)
	VerificationComplete(summary VerificationSummary)
	RunComplete(outcome RunOutcome)
	Warning(message string)
	Error(err ReporterError)
	Verbose(message string)
}

// NullReporter is a no-op reporter that discards all updates.
type NullReporter struct{}

func (NullReporter) Hardware(HardwareSummary)                 {}
func (NullReporter) Source(SourceSummary)                     {}
func (NullReporter) Plan(PlanSummary)                         {}
func (NullReporter) EncoderConfig(EncoderConfigSummary)       {}
func (NullReporter) SegmentStarted(SegmentStartInfo)          {}
func (NullReporter) SegmentProgress(ProgressSnapshot)         {}
func (NullReporter) SegmentComplete(SegmentOutcome)           {}
func (NullReporter) VerificationComplete(VerificationSummary) {}
func (NullReporter) RunComplete(RunOutcome)                   {}
func (NullReporter) Warning(string)                           {}
func (NullReporter) Error(ReporterError)                      {}
func (NullReporter) Verbose(string)                           {}
