package httptransport

import (
	dErrors "guardian/pkg/domain-errors"
)

// InitiateRecallRequest is the command body for starting a recall.
type InitiateRecallRequest struct {
	ProductName  string                    `json:"productName"`
	BatchID      string                    `json:"batchId"`
	Reason       string                    `json:"reason"`
	InitiatedBy  string                    `json:"initiatedBy"`
	Distributors []DistributorInputRequest `json:"distributors"`
}

// DistributorInputRequest is one distributor entry within an initiation.
type DistributorInputRequest struct {
	DistributorID       string `json:"distributorId"`
	DistributorName     string `json:"distributorName"`
	ContactEmail        string `json:"contactEmail,omitempty"`
	QuantityDistributed int64  `json:"quantityDistributed"`
}

func (r InitiateRecallRequest) Validate() error {
	if r.ProductName == "" {
		return dErrors.New(dErrors.CodeBadRequest, "productName is required")
	}
	if r.BatchID == "" {
		return dErrors.New(dErrors.CodeBadRequest, "batchId is required")
	}
	if r.Reason == "" {
		return dErrors.New(dErrors.CodeBadRequest, "reason is required")
	}
	if r.InitiatedBy == "" {
		return dErrors.New(dErrors.CodeBadRequest, "initiatedBy is required")
	}
	if len(r.Distributors) == 0 {
		return dErrors.New(dErrors.CodeBadRequest, "distributors must not be empty")
	}
	for i, d := range r.Distributors {
		if d.DistributorID == "" {
			return dErrors.Newf(dErrors.CodeBadRequest, "distributors[%d].distributorId is required", i)
		}
		if d.DistributorName == "" {
			return dErrors.Newf(dErrors.CodeBadRequest, "distributors[%d].distributorName is required", i)
		}
		if d.QuantityDistributed < 0 {
			return dErrors.Newf(dErrors.CodeBadRequest, "distributors[%d].quantityDistributed must be non-negative", i)
		}
	}
	return nil
}

// AcknowledgeRequest identifies the distributor acknowledging a recall.
type AcknowledgeRequest struct {
	DistributorID string `json:"distributorId"`
}

func (r AcknowledgeRequest) Validate() error {
	if r.DistributorID == "" {
		return dErrors.New(dErrors.CodeBadRequest, "distributorId is required")
	}
	return nil
}

// ReturnsUpdateRequest records additional returned units for a distributor.
type ReturnsUpdateRequest struct {
	DistributorID    string `json:"distributorId"`
	QuantityReturned int64  `json:"quantityReturned"`
}

func (r ReturnsUpdateRequest) Validate() error {
	if r.DistributorID == "" {
		return dErrors.New(dErrors.CodeBadRequest, "distributorId is required")
	}
	if r.QuantityReturned < 0 {
		return dErrors.New(dErrors.CodeBadRequest, "quantityReturned must be non-negative")
	}
	return nil
}
