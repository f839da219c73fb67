package domain

type MetricsCollector interface {
	RecordCycle(CycleResult)
	RecordSolverRequest(backend string, outcome string)
	RecordPublish(outcome string)
	RecordSessionCreate()
	RecordSessionDestroy()
}
