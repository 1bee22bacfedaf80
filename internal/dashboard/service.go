package dashboard

import (
	"context"
	"errors"
	"time"

	"github.com/kanchanlabs/delivery-backend/pkg/enums"
	apperrors "github.com/kanchanlabs/delivery-backend/pkg/errors"
)

// CustomerCounter counts registered customers by type.
type CustomerCounter interface {
	CountByType(ctx context.Context, customerType enums.CustomerType) (int64, error)
}

// OrderCounter counts orders placed on a date.
type OrderCounter interface {
	CountByDate(ctx context.Context, date time.Time) (int64, error)
}

// Stats is the operator's at-a-glance summary for today.
type Stats struct {
	Date               time.Time
	TodayOrders        int64
	MonthlyCustomers   int64
	ShopCustomers      int64
	CansDeliveredToday int64
	CansCollectedToday int64
	PendingCans        int64
}

// ServiceParams groups dependencies for the dashboard service.
type ServiceParams struct {
	Repo      Repository
	Customers CustomerCounter
	Orders    OrderCounter
}

// Service aggregates counts across the other domains.
type Service struct {
	repo      Repository
	customers CustomerCounter
	orders    OrderCounter
}

// NewService builds a dashboard service.
func NewService(params ServiceParams) (*Service, error) {
	if params.Repo == nil {
		return nil, errors.New("repo is required")
	}
	if params.Customers == nil {
		return nil, errors.New("customer counter is required")
	}
	if params.Orders == nil {
		return nil, errors.New("order counter is required")
	}
	return &Service{repo: params.Repo, customers: params.Customers, orders: params.Orders}, nil
}

// StatsFor builds the dashboard summary for one day.
func (s *Service) StatsFor(ctx context.Context, date time.Time) (*Stats, error) {
	date = time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	stats := &Stats{Date: date}

	var err error
	if stats.TodayOrders, err = s.orders.CountByDate(ctx, date); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "counting orders")
	}
	if stats.MonthlyCustomers, err = s.customers.CountByType(ctx, enums.CustomerTypeMonthly); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "counting monthly customers")
	}
	if stats.ShopCustomers, err = s.customers.CountByType(ctx, enums.CustomerTypeShop); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "counting shop customers")
	}
	if stats.CansDeliveredToday, stats.CansCollectedToday, err = s.repo.CansMovedOn(ctx, date); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "summing can movement")
	}
	if stats.PendingCans, err = s.repo.PendingCans(ctx); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "summing pending cans")
	}
	return stats, nil
}
