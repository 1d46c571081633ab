package repository

import (
	"sort"

	"reseller-orders/internal/domain"

	"github.com/shopspring/decimal"
)

// ToOrderSummary expects Status and Items.Product to be loaded.
func ToOrderSummary(o *domain.Order) domain.OrderSummary {
	cost, price := orderTotals(o)
	return domain.OrderSummary{
		ID:          o.ID.UUID(),
		ResellerID:  o.ResellerID.UUID(),
		CustomerID:  o.CustomerID.UUID(),
		StatusID:    o.StatusID.UUID(),
		StatusName:  o.Status.Name,
		ItemCount:   len(o.Items),
		TotalCost:   cost,
		TotalPrice:  price,
		CreatedDate: o.CreatedDate,
	}
}

// ToOrderDetail expects Status, Items.Product and Items.Service to be loaded.
func ToOrderDetail(o *domain.Order) domain.OrderDetail {
	cost, price := orderTotals(o)
	items := make([]domain.OrderItemDetail, 0, len(o.Items))
	for i := range o.Items {
		it := &o.Items[i]
		items = append(items, domain.OrderItemDetail{
			ID:          it.ID.UUID(),
			OrderID:     it.OrderID.UUID(),
			ServiceID:   it.ServiceID.UUID(),
			ServiceName: it.Service.Name,
			ProductID:   it.ProductID.UUID(),
			ProductName: it.Product.Name,
			UnitCost:    it.Product.UnitCost,
			UnitPrice:   it.Product.UnitPrice,
			TotalCost:   lineTotal(it.Quantity, it.Product.UnitCost),
			TotalPrice:  lineTotal(it.Quantity, it.Product.UnitPrice),
			Quantity:    quantity(it.Quantity),
		})
	}
	return domain.OrderDetail{
		ID:          o.ID.UUID(),
		ResellerID:  o.ResellerID.UUID(),
		CustomerID:  o.CustomerID.UUID(),
		StatusID:    o.StatusID.UUID(),
		StatusName:  o.Status.Name,
		CreatedDate: o.CreatedDate,
		TotalCost:   cost,
		TotalPrice:  price,
		Items:       items,
	}
}

// OrderProfit is the sum over items of quantity * (unit price - unit cost).
func OrderProfit(o *domain.Order) decimal.Decimal {
	profit := decimal.Zero
	for i := range o.Items {
		it := &o.Items[i]
		profit = profit.Add(lineTotal(it.Quantity, it.Product.UnitPrice)).
			Sub(lineTotal(it.Quantity, it.Product.UnitCost))
	}
	return profit
}

// ProfitByMonth groups orders by month of year. The year is ignored, so
// March 2023 and March 2024 land in the same bucket. Months without orders
// are left out.
func ProfitByMonth(orders []domain.Order) []domain.MonthProfit {
	byMonth := make(map[int]decimal.Decimal)
	for i := range orders {
		month := int(orders[i].CreatedDate.UTC().Month())
		byMonth[month] = byMonth[month].Add(OrderProfit(&orders[i]))
	}

	out := make([]domain.MonthProfit, 0, len(byMonth))
	for month, profit := range byMonth {
		out = append(out, domain.MonthProfit{Month: month, Profit: profit})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}

func orderTotals(o *domain.Order) (cost, price decimal.Decimal) {
	cost, price = decimal.Zero, decimal.Zero
	for i := range o.Items {
		it := &o.Items[i]
		cost = cost.Add(lineTotal(it.Quantity, it.Product.UnitCost))
		price = price.Add(lineTotal(it.Quantity, it.Product.UnitPrice))
	}
	return cost, price
}

// null quantity or amount counts as zero
func lineTotal(qty *int, amount decimal.NullDecimal) decimal.Decimal {
	if qty == nil || !amount.Valid {
		return decimal.Zero
	}
	return amount.Decimal.Mul(decimal.NewFromInt(int64(*qty)))
}

func quantity(qty *int) int {
	if qty == nil {
		return 0
	}
	return *qty
}
