// Package tools implements the MCP tools that expose the differential engine.
package tools

import (
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/ddx-coach-mcp-server/internal/domain"
)

// toolError logs a failed call and converts err into a coded ServiceError, which the
// SDK reports to the client as a tool error result.
func toolError(logger *logrus.Logger, tool string, err error) error {
	var svcErr *domain.ServiceError
	if errors.As(err, &svcErr) {
		return svcErr
	}
	code := domain.ErrorCode(err)
	entry := logger.WithError(err).WithFields(logrus.Fields{
		"tool": tool,
		"code": code,
	})
	if code == domain.ErrInternalServer {
		entry.Error("Tool call failed")
	} else {
		entry.Warn("Tool call rejected")
	}
	return domain.NewServiceError(code, err.Error(), "", "")
}

// nonNilEntries keeps a missing list distinguishable from a malformed one.
func nonNilEntries(entries []domain.DiagnosisEntry) []domain.DiagnosisEntry {
	if entries == nil {
		return []domain.DiagnosisEntry{}
	}
	return entries
}
