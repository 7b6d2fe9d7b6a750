package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/stockroom/pkg/types"
)

// Accepted quantity range for values entered on the command line.
const (
	minQuantity = 0
	maxQuantity = 1000000
)

// recordFlags holds the field flags shared by add and update.
type recordFlags struct {
	name     string
	category string
	quantity int
	location string
	date     string
}

func (f *recordFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "component name")
	cmd.Flags().StringVar(&f.category, "category", "", "component category")
	cmd.Flags().IntVar(&f.quantity, "quantity", 0, "units on hand (0-1000000)")
	cmd.Flags().StringVar(&f.location, "location", "", "shelf or bin")
	cmd.Flags().StringVar(&f.date, "date", "", "acquisition date, YYYY-MM-DD (default: today)")
}

func checkQuantity(q int) error {
	if q < minQuantity || q > maxQuantity {
		return userError("quantity %d out of range %d-%d", q, minQuantity, maxQuantity)
	}
	return nil
}

// checkInput applies the command-line input rules to a record read from
// a file.
func checkInput(r types.Record) error {
	if err := checkQuantity(r.Quantity); err != nil {
		return err
	}
	return checkDate(r.AcquisitionDate)
}

func checkDate(d string) error {
	if d == "" {
		return nil
	}
	if _, err := time.Parse(types.DateLayout, d); err != nil {
		return userError("date %q: expected YYYY-MM-DD", d)
	}
	return nil
}

func newAddCmd(a *app) *cobra.Command {
	var f recordFlags
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a record to the inventory",
		Example: `  stockroom add --name "Arduino Uno" --category Electronics --quantity 10 --location "Shelf A"
  stockroom add --name "Servo SG90" --category Actuator --quantity 3 --date 2025-03-10`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if f.date == "" {
				f.date = time.Now().Format(types.DateLayout)
			}
			if err := checkQuantity(f.quantity); err != nil {
				return err
			}
			if err := checkDate(f.date); err != nil {
				return err
			}
			r := types.Record{
				Name:            f.name,
				Category:        f.category,
				Quantity:        f.quantity,
				Location:        f.location,
				AcquisitionDate: f.date,
			}
			return a.withStore(cmd, func(store types.Store) error {
				id, err := store.Insert(r)
				if err != nil {
					return err
				}
				r.ID = id
				if a.flags.jsonMode {
					return printJSON(cmd, r)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added record %d\n", id)
				return nil
			})
		},
	}
	f.register(cmd)
	return cmd
}

func newShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return a.withStore(cmd, func(store types.Store) error {
				r, err := store.GetByID(id)
				if err != nil {
					return fmt.Errorf("record %d: %w", id, err)
				}
				if a.flags.jsonMode {
					return printJSON(cmd, r)
				}
				printRecord(cmd, r)
				return nil
			})
		},
	}
}

func printRecord(cmd *cobra.Command, r types.Record) {
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "ID:       %d\n", r.ID)
	fmt.Fprintf(w, "Name:     %s\n", r.Name)
	fmt.Fprintf(w, "Category: %s\n", r.Category)
	fmt.Fprintf(w, "Quantity: %d\n", r.Quantity)
	fmt.Fprintf(w, "Location: %s\n", r.Location)
	fmt.Fprintf(w, "Acquired: %s\n", r.AcquisitionDate)
}

func newSetQtyCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "set-qty <id> <quantity>",
		Short: "Set the quantity of a record",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			qty, err := strconv.Atoi(args[1])
			if err != nil {
				return userError("invalid quantity %q", args[1])
			}
			if err := checkQuantity(qty); err != nil {
				return err
			}
			return a.withStore(cmd, func(store types.Store) error {
				if err := store.UpdateQuantity(id, qty); err != nil {
					return fmt.Errorf("record %d: %w", id, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Record %d quantity set to %d\n", id, qty)
				return nil
			})
		},
	}
}

func newUpdateCmd(a *app) *cobra.Command {
	var f recordFlags
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change fields of a record",
		Long:  "Update replaces the fields given as flags and keeps the others.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			changed := cmd.Flags().Changed
			if changed("quantity") {
				if err := checkQuantity(f.quantity); err != nil {
					return err
				}
			}
			if changed("date") {
				if err := checkDate(f.date); err != nil {
					return err
				}
			}
			return a.withStore(cmd, func(store types.Store) error {
				r, err := store.GetByID(id)
				if err != nil {
					return fmt.Errorf("record %d: %w", id, err)
				}
				if changed("name") {
					r.Name = f.name
				}
				if changed("category") {
					r.Category = f.category
				}
				if changed("quantity") {
					r.Quantity = f.quantity
				}
				if changed("location") {
					r.Location = f.location
				}
				if changed("date") {
					r.AcquisitionDate = f.date
				}
				if err := store.UpdateRecord(r); err != nil {
					return fmt.Errorf("record %d: %w", id, err)
				}
				if a.flags.jsonMode {
					return printJSON(cmd, r)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Updated record %d\n", id)
				return nil
			})
		},
	}
	f.register(cmd)
	return cmd
}

func newDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return a.withStore(cmd, func(store types.Store) error {
				if err := store.Remove(id); err != nil {
					return fmt.Errorf("record %d: %w", id, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted record %d\n", id)
				return nil
			})
		},
	}
}
