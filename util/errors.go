package util

import (
	"errors"
	"sync"
)

// ErrorCollector gathers errors reported by concurrent workers.
type ErrorCollector interface {
	Add(err error)
	Len() int
	Combined() error
}

type errorCollector struct {
	errors []error
	lock   *sync.Mutex
}

func NewErrorCollector() ErrorCollector {
	return &errorCollector{
		lock: &sync.Mutex{},
	}
}

// Add records the given error. Nil errors are ignored so that callers may pass a worker's result through unchecked.
func (s *errorCollector) Add(err error) {
	if err == nil {
		return
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	s.errors = append(s.errors, err)
}

func (s *errorCollector) Len() int {
	s.lock.Lock()
	defer s.lock.Unlock()

	return len(s.errors)
}

func (s *errorCollector) Combined() error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if len(s.errors) > 0 {
		return errors.Join(s.errors...)
	}

	return nil
}
