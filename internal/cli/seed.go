package cli

import (
	"math/rand"
	"time"

	"github.com/jaswdr/faker"
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/employees/internal/core"
)

var districts = []string{
	"Centro", "Bela Vista", "Jardim América", "Boa Viagem", "Savassi",
	"Moinhos de Vento", "Meireles", "Batel", "Pituba", "Lagoa",
}

var states = []string{
	"AC", "AL", "AP", "AM", "BA", "CE", "DF", "ES", "GO", "MA", "MT", "MS", "MG", "PA",
	"PB", "PR", "PE", "PI", "RJ", "RN", "RS", "RO", "RR", "SC", "SP", "SE", "TO",
}

// fakeEmployee fills every field with generated data.
func fakeEmployee(f faker.Faker, now time.Time) core.Employee {
	p := f.Person()
	a := f.Address()

	salary := float64(f.IntBetween(150000, 2500000)) / 100
	hired := f.Time().TimeBetween(now.AddDate(-15, 0, 0), now)
	hireDate, _ := core.ParseHireDate(hired.Format("2006-01-02"))

	text := func(s string) *string { return core.CleanText(s) }
	return core.Employee{
		Name:     text(p.FirstName() + " " + p.LastName()),
		Email:    text(f.Internet().Email()),
		Phone:    text(f.Numerify("(##) 9####-####")),
		CPF:      text(f.Numerify("###.###.###-##")),
		Role:     text(f.Company().JobTitle()),
		Salary:   &salary,
		HireDate: hireDate,
		CEP:      text(f.Numerify("#####-###")),
		Street:   text(a.StreetName()),
		Number:   text(a.BuildingNumber()),
		District: text(f.RandomStringElement(districts)),
		City:     text(a.City()),
		State:    text(f.RandomStringElement(states)),
	}
}

func (cl *commandline) seed(cmd *cobra.Command) {
	var (
		count int
		seed  int64
	)
	ccmd := &cobra.Command{
		Use:               "seed",
		Short:             "Create generated employees for development",
		Args:              cobra.NoArgs,
		PersistentPreRunE: cl.connect,
		PersistentPostRun: cl.disconnect,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := cl.fake
			if cmd.Flags().Changed("seed") {
				f = faker.NewWithSeed(rand.NewSource(seed))
			}

			now := time.Now()
			for i := 0; i < count; i++ {
				if _, err := check("create", cl.svc.Create(cmd.Context(), fakeEmployee(f, now))); err != nil {
					warning(cmd.ErrOrStderr(), "stopped after %d employee(s)\n", i)
					return err
				}
			}
			success(cmd.ErrOrStderr(), "created %d employee(s)\n", count)
			return nil
		},
	}
	ccmd.Flags().IntVarP(&count, "count", "n", 10, "number of employees to create")
	ccmd.Flags().Int64Var(&seed, "seed", 0, "random seed for reproducible data")
	cmd.AddCommand(ccmd)
}
