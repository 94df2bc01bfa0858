package graph

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/grantgraph/grantgraph/internal/util"
	"github.com/grantgraph/grantgraph/pkg/common"
	"github.com/grantgraph/grantgraph/pkg/normalize"

	"github.com/go-playground/validator"
)

// buildRecord runs the per-record algorithm inside a single write scope.
// Any failure rolls the scope back so no partial subgraph survives.
func (c *Client) buildRecord(ctx context.Context, record common.Record) error {
	award, err := c.extractAward(record)
	if err != nil {
		return err
	}

	scope, err := c.store.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to open write scope: %w", err)
	}

	if err := c.assemble(ctx, scope, record, award); err != nil {
		if rbErr := scope.Rollback(ctx); rbErr != nil {
			return fmt.Errorf("%w (rollback also failed: %v)", err, rbErr)
		}
		return err
	}

	if err := scope.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit record %s: %w", record.Code, err)
	}
	return nil
}

// recordFieldNames maps struct field names to the names record errors are
// reported under, matching the names used for conversion failures below.
var recordFieldNames = map[string]string{
	"Code":         "code",
	"Effective":    "effective",
	"Expires":      "expires",
	"FirstAmended": "first_amended",
	"LastAmended":  "last_amended",
	"Amount":       "amount",
}

// extractAward validates the record's scalar fields and type-converts them.
// Missing or malformed required fields abort the record, reported against
// the field at fault.
func (c *Client) extractAward(record common.Record) (common.Award, error) {
	if err := c.validate.Struct(record); err != nil {
		field := ""
		if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
			field = recordFieldNames[errs[0].Field()]
			if field == "" {
				field = strings.ToLower(errs[0].Field())
			}
		}
		return common.Award{}, common.NewRecordError(record.Code, field, fmt.Errorf("required field missing"))
	}

	award := common.Award{
		Code:       record.Code,
		Title:      record.Title,
		Instrument: strings.Join(record.Instruments, ","),
	}

	if abstract := util.SanitizeDBText(strings.TrimSpace(record.Abstract)); abstract != "" {
		award.Abstract = &abstract
	}

	dates := []struct {
		field string
		raw   string
		dst   *time.Time
	}{
		{"effective", record.Effective, &award.Effective},
		{"expires", record.Expires, &award.Expires},
		{"first_amended", record.FirstAmended, &award.FirstAmended},
		{"last_amended", record.LastAmended, &award.LastAmended},
	}
	for _, d := range dates {
		parsed, err := normalize.ParseDate(d.raw)
		if err != nil {
			return common.Award{}, common.NewRecordError(record.Code, d.field, err)
		}
		*d.dst = parsed
	}

	amount, err := strconv.ParseInt(strings.TrimSpace(record.Amount), 10, 64)
	if err != nil {
		return common.Award{}, common.NewRecordError(record.Code, "amount", err)
	}
	award.Amount = amount

	// An absent supplemental amount means zero.
	if arra := strings.TrimSpace(record.ARRAAmount); arra != "" {
		award.ARRAAmount, err = strconv.ParseInt(arra, 10, 64)
		if err != nil {
			return common.Award{}, common.NewRecordError(record.Code, "arra_amount", err)
		}
	}

	return award, nil
}
