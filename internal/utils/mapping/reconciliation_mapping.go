package mapping

import (
	"github.com/smallbooks/bookkeeping_app/internal/core/domain"
	"github.com/smallbooks/bookkeeping_app/internal/models"
)

// ToModelReconciliation converts a domain Reconciliation to its model row.
func ToModelReconciliation(d domain.Reconciliation) models.Reconciliation {
	return models.Reconciliation{
		ReconciliationID: d.ReconciliationID,
		BusinessID:       d.BusinessID,
		AccountID:        d.AccountID,
		StatementDate:    d.StatementDate,
		ClosingBalance:   d.ClosingBalance,
		Status:           models.ReconciliationStatus(d.Status),
		AuditFields:      ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainReconciliation converts a model Reconciliation row to domain.
func ToDomainReconciliation(m models.Reconciliation) domain.Reconciliation {
	return domain.Reconciliation{
		ReconciliationID: m.ReconciliationID,
		BusinessID:       m.BusinessID,
		AccountID:        m.AccountID,
		StatementDate:    m.StatementDate,
		ClosingBalance:   m.ClosingBalance,
		Status:           domain.ReconciliationStatus(m.Status),
		AuditFields:      ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelMatch converts a domain Match to its model row.
func ToModelMatch(d domain.Match) models.ReconciliationMatch {
	return models.ReconciliationMatch{
		MatchID:          d.MatchID,
		ReconciliationID: d.ReconciliationID,
		LineID:           d.LineID,
		StatementDate:    d.StatementDate,
		StatementDesc:    d.StatementDesc,
		StatementAmount:  d.StatementAmount,
		TieBroken:        d.TieBroken,
		AuditFields:      ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainMatch converts a model ReconciliationMatch row to domain.
func ToDomainMatch(m models.ReconciliationMatch) domain.Match {
	return domain.Match{
		MatchID:          m.MatchID,
		ReconciliationID: m.ReconciliationID,
		LineID:           m.LineID,
		StatementDate:    m.StatementDate,
		StatementDesc:    m.StatementDesc,
		StatementAmount:  m.StatementAmount,
		TieBroken:        m.TieBroken,
		AuditFields:      ToDomainAuditFields(m.AuditFields),
	}
}
