package state

import (
	"context"
	"fmt"

	"finanzas/internal/core"
)

// SeedIfEmpty populates an empty store with the demo ledger and goals and
// reports whether it seeded. A store that already holds transactions or
// goals is left alone.
func (a *App) SeedIfEmpty(ctx context.Context) (bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if len(a.transactions) > 0 || len(a.goals) > 0 {
		return false, nil
	}

	txs := demoTransactions()
	goals := demoGoals()

	if err := a.store.SaveTransactions(ctx, txs); err != nil {
		return false, fmt.Errorf("seed transactions: %w", err)
	}
	if err := a.store.SaveGoals(ctx, goals); err != nil {
		return false, fmt.Errorf("seed goals: %w", err)
	}

	a.transactions = txs
	a.goals = goals
	return true, nil
}

func demoTransactions() []core.Transaction {
	d := func(s string) core.Date {
		out, _ := core.ParseDate(s)
		return out
	}
	return []core.Transaction{
		{ID: "1", Date: d("2023-10-01"), Description: "Salario", Amount: core.Money{Cents: 500000}, Category: "Ingresos", Type: core.TypeIncome, User: "Papá"},
		{ID: "2", Date: d("2023-10-02"), Description: "Hipoteca", Amount: core.Money{Cents: 120000}, Category: "Vivienda", Type: core.TypeFixed, User: "Conjunto"},
		{ID: "3", Date: d("2023-10-05"), Description: "Supermercado", Amount: core.Money{Cents: 15000}, Category: "Comestibles", Type: core.TypeVariable, User: "Mamá"},
		{ID: "4", Date: d("2023-10-06"), Description: "Suscripción Netflix", Amount: core.Money{Cents: 1500}, Category: "Entretenimiento", Type: core.TypeDiscretionary, User: "Conjunto"},
		{ID: "5", Date: d("2023-10-08"), Description: "Factura Electricidad", Amount: core.Money{Cents: 12000}, Category: "Servicios", Type: core.TypeFixed, User: "Conjunto"},
		{ID: "6", Date: d("2023-10-10"), Description: "Fondo de Emergencia", Amount: core.Money{Cents: 50000}, Category: "Ahorro", Type: core.TypeSavings, User: "Papá"},
		{ID: "7", Date: d("2023-10-12"), Description: "Cena Familiar", Amount: core.Money{Cents: 8500}, Category: "Restaurante", Type: core.TypeDiscretionary, User: "Conjunto"},
		{ID: "8", Date: d("2023-10-15"), Description: "Seguro de Auto", Amount: core.Money{Cents: 10000}, Category: "Seguros", Type: core.TypeFixed, User: "Mamá"},
		{ID: "9", Date: d("2023-10-18"), Description: "Gasolinera", Amount: core.Money{Cents: 4500}, Category: "Transporte", Type: core.TypeVariable, User: "Mamá"},
		{ID: "10", Date: d("2023-10-20"), Description: "Cine", Amount: core.Money{Cents: 4000}, Category: "Entretenimiento", Type: core.TypeDiscretionary, User: "Papá"},
	}
}

func demoGoals() []core.Goal {
	d := func(s string) core.Date {
		out, _ := core.ParseDate(s)
		return out
	}
	return []core.Goal{
		{ID: "1", Name: "Vacaciones de Verano", TargetAmount: core.Money{Cents: 300000}, CurrentAmount: core.Money{Cents: 120000}, Deadline: d("2024-06-01"), Icon: "🏖️"},
		{ID: "2", Name: "Nueva Laptop", TargetAmount: core.Money{Cents: 150000}, CurrentAmount: core.Money{Cents: 80000}, Deadline: d("2023-12-25"), Icon: "💻"},
		{ID: "3", Name: "Fondo de Emergencia", TargetAmount: core.Money{Cents: 2000000}, CurrentAmount: core.Money{Cents: 1240000}, Deadline: d("2025-01-01"), Icon: "🚑"},
	}
}
