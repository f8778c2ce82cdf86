// Package resources serves the term catalog and the VINDICATE taxonomy as MCP resources.
package resources

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sirupsen/logrus"

	"github.com/ddx-coach-mcp-server/internal/domain"
	"github.com/ddx-coach-mcp-server/internal/service"
)

// Resource URIs
const (
	CatalogURI  = "ddx://catalog/terms"
	TaxonomyURI = "ddx://taxonomy/vindicate"
	jsonMIME    = "application/json"
)

// ResourceManager manages MCP resources
type ResourceManager struct {
	logger  *logrus.Logger
	service *service.DifferentialService
}

// NewResourceManager creates a new resource manager
func NewResourceManager(logger *logrus.Logger, svc *service.DifferentialService) *ResourceManager {
	return &ResourceManager{
		logger:  logger,
		service: svc,
	}
}

// RegisterAll registers every resource with server
func (rm *ResourceManager) RegisterAll(server *mcp.Server) {
	server.AddResource(&mcp.Resource{
		URI:         CatalogURI,
		Name:        "diagnosis-terms",
		Description: "Term catalog used for autocomplete, with abbreviations",
		MIMEType:    jsonMIME,
	}, rm.readCatalog)

	server.AddResource(&mcp.Resource{
		URI:         TaxonomyURI,
		Name:        "vindicate-taxonomy",
		Description: "VINDICATE etiologic categories with codes, labels and display letters",
		MIMEType:    jsonMIME,
	}, rm.readTaxonomy)

	rm.logger.WithField("resource_count", 2).Debug("Registered MCP resources")
}

func (rm *ResourceManager) readCatalog(_ context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	return rm.jsonResult(req.Params.URI, struct {
		Terms []domain.TermCatalogEntry `json:"terms"`
	}{Terms: rm.service.Catalog().Entries()})
}

func (rm *ResourceManager) readTaxonomy(_ context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	return rm.jsonResult(req.Params.URI, struct {
		Categories []domain.CategoryInfo `json:"categories"`
		Tiers      []tierInfo            `json:"tiers"`
	}{Categories: rm.service.Categories(), Tiers: tiers()})
}

type tierInfo struct {
	Code  domain.Tier `json:"code"`
	Label string      `json:"label"`
}

func tiers() []tierInfo {
	all := domain.AllTiers()
	out := make([]tierInfo, 0, len(all))
	for _, t := range all {
		out = append(out, tierInfo{Code: t, Label: t.Label()})
	}
	return out
}

func (rm *ResourceManager) jsonResult(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode resource %s: %w", uri, err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{
			{URI: uri, MIMEType: jsonMIME, Text: string(data)},
		},
	}, nil
}
