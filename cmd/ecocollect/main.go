package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"ecocollect/internal/api"
	"ecocollect/internal/auth"
	"ecocollect/internal/config"
	"ecocollect/internal/guard"
	"ecocollect/internal/logger"
	"ecocollect/internal/material"
	"ecocollect/internal/notify"
	"ecocollect/internal/order"
	"ecocollect/internal/session"
	"ecocollect/internal/storage"
	"ecocollect/internal/user"
)

type app struct {
	sess      *session.Session
	queue     *notify.Queue
	users     user.Service
	orders    order.Service
	materials *material.Service
}

func main() {
	cfg := config.LoadConfig()
	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	store, err := storage.NewFileStore(cfg.StorageFile)
	if err != nil {
		log.Fatalf("Failed to open local storage: %v", err)
	}

	sess := session.New(store)
	queue := notify.NewQueue(notify.DefaultTTL)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go queue.StartSweeper(ctx, time.Second)

	client := api.NewClient(cfg.APIBaseURL, cfg.HTTPTimeout, sess,
		api.WithUnauthorizedHook(func() {
			// A stale token is discovered here, not on navigation.
			_ = sess.Clear()
			queue.Push(notify.LevelWarning, "Session expired, please log in again.")
		}),
	)

	a := &app{
		sess:      sess,
		queue:     queue,
		users:     user.NewService(user.NewRepository(client), sess, queue),
		orders:    order.NewService(order.NewRepository(client), sess, queue),
		materials: material.NewService(material.NewRepository(client)),
	}

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	if err := a.run(ctx, os.Args[1], os.Args[2:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		for _, n := range queue.Active() {
			fmt.Fprintf(os.Stderr, "[%s] %s\n", n.Level, n.Message)
		}
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: ecocollect <command> [flags]

commands:
  login         -email -password
  logout
  register      -email -password -name [-phone] [-address]
  select-role   -role (User|Collector|Admin)
  orders
  create        -materials id:qty[,id:qty...] [-notes]
  accept        -id
  collected     -id [-notes]
  transfer      -id [-notes]
  complete      -id [-notes]
  cancel        -id [-reason]
  materials
  profile
  points`)
}

// requiredRoles maps commands to the roles allowed to run them, the
// same checks the guarded routes enforce. Commands absent from the map
// are open to anyone.
var requiredRoles = map[string][]auth.Role{
	"orders":    {auth.RoleUser, auth.RoleCollector, auth.RoleAdmin},
	"create":    {auth.RoleUser},
	"accept":    {auth.RoleCollector},
	"collected": {auth.RoleCollector},
	"transfer":  {auth.RoleCollector},
	"complete":  {auth.RoleAdmin},
	"cancel":    {auth.RoleUser, auth.RoleCollector},
	"profile":   {auth.RoleUser, auth.RoleCollector, auth.RoleAdmin},
	"points":    {auth.RoleUser},
}

func (a *app) run(ctx context.Context, command string, args []string) error {
	if roles, ok := requiredRoles[command]; ok {
		if err := a.authorize(roles); err != nil {
			return err
		}
	}
	if command == "login" || command == "register" {
		if d := guard.GuestOnly()(a.sess, ""); !d.Allowed {
			return fmt.Errorf("already logged in, run: ecocollect logout")
		}
	}

	switch command {
	case "login":
		fs := flag.NewFlagSet("login", flag.ExitOnError)
		email := fs.String("email", "", "account email")
		password := fs.String("password", "", "account password")
		fs.Parse(args)

		if err := a.users.Login(ctx, *email, *password); err != nil {
			return err
		}
		fmt.Printf("Logged in as %s (%s)\n", *email, a.sess.Role())
		return nil

	case "logout":
		if err := a.users.Logout(); err != nil {
			return err
		}
		fmt.Println("Logged out")
		return nil

	case "register":
		fs := flag.NewFlagSet("register", flag.ExitOnError)
		email := fs.String("email", "", "account email")
		password := fs.String("password", "", "account password")
		name := fs.String("name", "", "full name")
		phone := fs.String("phone", "", "phone number")
		address := fs.String("address", "", "pickup address")
		fs.Parse(args)

		return a.users.Register(ctx, user.RegisterRequest{
			Email:    *email,
			Password: *password,
			Name:     *name,
			Phone:    *phone,
			Address:  *address,
		})

	case "select-role":
		fs := flag.NewFlagSet("select-role", flag.ExitOnError)
		role := fs.String("role", "", "role to act as")
		fs.Parse(args)

		return a.users.SelectRole(ctx, auth.ParseRole(*role))

	case "orders":
		if err := a.orders.Refresh(ctx); err != nil {
			return err
		}
		p := a.orders.Partition()
		printOrders("Pending", p.Pending)
		printOrders("In progress", p.Accepted)
		printOrders("Finished", p.Completed)
		return nil

	case "create":
		fs := flag.NewFlagSet("create", flag.ExitOnError)
		raw := fs.String("materials", "", "materials as id:qty[,id:qty...]")
		notes := fs.String("notes", "", "note for the collector")
		fs.Parse(args)

		items, err := a.parseMaterials(ctx, *raw)
		if err != nil {
			return err
		}
		o, err := a.orders.Create(ctx, items, *notes)
		if err != nil {
			return err
		}
		fmt.Printf("Order %d created (%s)\n", o.ID, order.Label(o.Status))
		return nil

	case "accept":
		id, _, err := idAndNotes("accept", args)
		if err != nil {
			return err
		}
		return a.orders.Accept(ctx, id)

	case "collected":
		id, notes, err := idAndNotes("collected", args)
		if err != nil {
			return err
		}
		return a.orders.MarkCollected(ctx, id, notes)

	case "transfer":
		id, notes, err := idAndNotes("transfer", args)
		if err != nil {
			return err
		}
		return a.orders.Transfer(ctx, id, notes)

	case "complete":
		id, notes, err := idAndNotes("complete", args)
		if err != nil {
			return err
		}
		return a.orders.Complete(ctx, id, notes)

	case "cancel":
		fs := flag.NewFlagSet("cancel", flag.ExitOnError)
		id := fs.Uint("id", 0, "order id")
		reason := fs.String("reason", "", "cancellation reason")
		fs.Parse(args)

		return a.orders.Cancel(ctx, uint(*id), *reason)

	case "materials":
		materials, err := a.materials.Materials(ctx)
		if err != nil {
			return err
		}
		for _, m := range materials {
			fmt.Printf("%3d  %-20s %-10s %s (%.1f pts/%s)\n",
				m.ID, m.Name, m.Type, m.Unit, m.PointsPerUnit, m.Unit)
		}
		return nil

	case "profile":
		p, err := a.users.Profile(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("%s <%s> role=%s\n", p.Name, p.Email, p.Role)
		return nil

	case "points":
		pts, err := a.users.Points(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("Reward points: %d\n", pts.Total)
		return nil

	default:
		usage()
		return fmt.Errorf("unknown command: %s", command)
	}
}

// authorize runs the role guards against the current session before a
// protected command executes.
func (a *app) authorize(roles []auth.Role) error {
	for _, role := range roles {
		if d := guard.RequireRole(role)(a.sess, ""); d.Allowed {
			return nil
		}
	}
	switch {
	case !a.sess.IsLoggedIn():
		return fmt.Errorf("not logged in, run: ecocollect login")
	case a.sess.Role() == auth.RoleNone:
		return fmt.Errorf("no role selected, run: ecocollect select-role")
	default:
		return fmt.Errorf("role %s is not allowed to run this command", a.sess.Role())
	}
}

func idAndNotes(name string, args []string) (uint, string, error) {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	id := fs.Uint("id", 0, "order id")
	notes := fs.String("notes", "", "notes")
	fs.Parse(args)

	if *id == 0 {
		return 0, "", fmt.Errorf("%s: -id is required", name)
	}
	return uint(*id), *notes, nil
}

// parseMaterials expands "id:qty,id:qty" against the catalog.
func (a *app) parseMaterials(ctx context.Context, raw string) ([]order.OrderMaterial, error) {
	if raw == "" {
		return nil, fmt.Errorf("-materials is required")
	}

	var items []order.OrderMaterial
	for _, part := range strings.Split(raw, ",") {
		idStr, qtyStr, ok := strings.Cut(part, ":")
		if !ok {
			return nil, fmt.Errorf("bad material spec %q, want id:qty", part)
		}
		id, err := strconv.ParseUint(idStr, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("bad material id %q", idStr)
		}
		qty, err := strconv.ParseFloat(qtyStr, 64)
		if err != nil {
			return nil, fmt.Errorf("bad quantity %q", qtyStr)
		}

		m, err := a.materials.ByID(ctx, uint(id))
		if err != nil {
			return nil, err
		}
		items = append(items, order.OrderMaterial{
			MaterialID:   m.ID,
			MaterialName: m.Name,
			MaterialType: m.Type,
			Quantity:     qty,
			Unit:         m.Unit,
		})
	}
	return items, nil
}

func printOrders(header string, orders []*order.Order) {
	if len(orders) == 0 {
		return
	}
	fmt.Printf("%s:\n", header)
	for _, o := range orders {
		fmt.Printf("  #%-4d %-35s %-8s qty=%.1f\n",
			o.ID, order.Label(o.Status), order.Color(o.Status), o.TotalQuantity)
	}
}
