package handlers

// ScopeConfig sizes a Dispatcher.
type ScopeConfig struct {
	BufferSize int // default: 1
	NumWorkers int // default: 1
}

func NewScopeConfig(bufferSize int, numWorkers int) ScopeConfig {
	if bufferSize <= 0 {
		bufferSize = 1
	}
	if numWorkers <= 0 {
		numWorkers = 1
	}
	return ScopeConfig{
		BufferSize: bufferSize,
		NumWorkers: numWorkers,
	}
}

// Partitionable payloads with the same key are handled by the same worker, in
// dispatch order.
type Partitionable interface {
	PartitionKey() string
}
