package ntriples

import (
	"github.com/citefeed/citefeed/internal/logger"
)

// Collector accumulates triples from raw lines. In lenient mode malformed
// lines are logged and counted; in strict mode the first one is returned
// as an error.
type Collector struct {
	strict    bool
	log       *logger.Logger
	triples   []Triple
	lines     int
	malformed int
}

// NewCollector creates a Collector.
func NewCollector(strict bool, log *logger.Logger) *Collector {
	return &Collector{strict: strict, log: log}
}

// Add parses one raw line. It returns an error only in strict mode.
func (c *Collector) Add(lineNo int, line string) error {
	c.lines++
	if !IsStatement(line) {
		return nil
	}
	t, err := ParseLine(line, lineNo)
	if err != nil {
		if c.strict {
			return err
		}
		c.malformed++
		c.log.Warn("skipping malformed statement", "line", lineNo, "error", err)
		return nil
	}
	c.triples = append(c.triples, t)
	return nil
}

// Triples returns the parsed statements in input order.
func (c *Collector) Triples() []Triple { return c.triples }

// Lines returns the number of raw lines seen.
func (c *Collector) Lines() int { return c.lines }

// Malformed returns the number of lines skipped in lenient mode.
func (c *Collector) Malformed() int { return c.malformed }
