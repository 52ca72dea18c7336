package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/example/delicias-storefront/internal/apperrors"
	"github.com/example/delicias-storefront/internal/catalog"
	"github.com/example/delicias-storefront/internal/checkout"
	"github.com/example/delicias-storefront/internal/domain/order"
	"github.com/example/delicias-storefront/internal/domain/session"
	"github.com/example/delicias-storefront/internal/email"
)

func registerCommands(r *CommandRegistry) {
	r.Register(&Command{
		Name:        "products",
		Description: "List products with category, search and sort filters",
		Usage:       "shop products [--category <name>] [--search <term>] [--sort destacados|precio-asc|precio-desc|nombre] [--counts]",
		Examples: []string{
			"shop products",
			"shop products --category Lácteos --sort precio-asc",
			"shop products --search arepa",
		},
		Run: productsCommand,
	})
	r.Register(&Command{
		Name:        "featured",
		Description: "List featured products",
		Usage:       "shop featured",
		Run:         featuredCommand,
	})
	r.Register(&Command{
		Name:        "categories",
		Description: "List product categories",
		Usage:       "shop categories",
		Run:         categoriesCommand,
	})
	r.Register(&Command{
		Name:        "product",
		Description: "Show one product",
		Usage:       "shop product <id>",
		Examples:    []string{"shop product 2"},
		Run:         productCommand,
	})
	r.Register(&Command{
		Name:        "banners",
		Description: "List active home page banners",
		Usage:       "shop banners",
		Run:         bannersCommand,
	})
	r.Register(&Command{
		Name:        "cart",
		Description: "Show or change the cart",
		Usage:       "shop cart [show|add <id>|remove <id>|set <id> <qty>|clear]",
		Examples: []string{
			"shop cart",
			"shop cart add 2",
			"shop cart set 2 3",
			"shop cart remove 2",
		},
		Run: cartCommand,
	})
	r.Register(&Command{
		Name:        "login",
		Description: "Log in with email and password",
		Usage:       "shop login <email> <password>",
		Run:         loginCommand,
	})
	r.Register(&Command{
		Name:        "register",
		Description: "Create an account and start a session",
		Usage:       "shop register --nombre <full name> --email <email> --password <pw> --confirm <pw>",
		Examples:    []string{`shop register --nombre "Ana Ruiz" --email ana@x.co --password secreto123 --confirm secreto123`},
		Run:         registerCommand,
	})
	r.Register(&Command{
		Name:        "logout",
		Description: "End the session",
		Usage:       "shop logout",
		Run:         logoutCommand,
	})
	r.Register(&Command{
		Name:        "whoami",
		Description: "Show the session user",
		Usage:       "shop whoami",
		Run:         whoamiCommand,
	})
	r.Register(&Command{
		Name:        "checkout",
		Description: "Place an order for the cart",
		Usage:       "shop checkout --direccion <addr> --ciudad <city> --telefono <phone> [--nombre] [--email] [--pago tarjeta|pse|efectivo] --terminos",
		Examples:    []string{`shop checkout --direccion "Calle 10 # 5-20" --ciudad Medellín --telefono 3001234567 --terminos`},
		Run:         checkoutCommand,
	})
}

func pesos(v float64) string {
	return "$" + email.FormatPesos(decimal.NewFromFloat(v))
}

func parseID(args []string, usage string) (int64, error) {
	if len(args) < 1 {
		return 0, fmt.Errorf("usage: %s", usage)
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid product id %q", args[0])
	}
	return id, nil
}

func resultErr(res apperrors.Result) error {
	if res.Success {
		return nil
	}
	return errors.New(res.Error)
}

func printProducts(a *app, products []catalog.Product) {
	t := NewTableWriter("ID", "Producto", "Categoría", "Precio", "")
	for _, p := range products {
		var tags string
		switch {
		case p.EnOferta() && p.EnvioGratis():
			tags = "oferta, envío gratis"
		case p.EnOferta():
			tags = "oferta"
		case p.EnvioGratis():
			tags = "envío gratis"
		}
		t.AddRow(strconv.FormatInt(p.ID, 10), p.Nombre, p.Categoria, pesos(p.Precio), tags)
	}
	t.Print(a.out)
}

func productsCommand(ctx context.Context, a *app, args []string) error {
	cmd := &Command{Name: "products"}
	fs := cmd.NewFlagSet(a.out)
	category := fs.String("category", catalog.CategoryAll, "category name or id")
	search := fs.String("search", "", "search term")
	sort := fs.String("sort", string(catalog.SortRelevance), "sort order")
	counts := fs.Bool("counts", false, "show per-category counts")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := a.page.Load(ctx); err != nil {
		return fmt.Errorf("no se pudieron cargar los productos: %w", err)
	}
	a.page.SetCategory(*category)
	a.page.SetSearch(*search)
	a.page.SetSort(catalog.ParseSortOrder(*sort))

	visible := a.page.Visible()
	if len(visible) == 0 {
		fmt.Fprintln(a.out, "No se encontraron productos")
	} else {
		printProducts(a, visible)
	}
	fmt.Fprintf(a.out, "%d de %d productos\n", len(visible), len(a.page.Products()))

	if *counts {
		t := NewTableWriter("Categoría", "Productos")
		for _, c := range a.page.Counts() {
			t.AddRow(c.Nombre, strconv.Itoa(c.Count))
		}
		t.Print(a.out)
	}
	return nil
}

func featuredCommand(ctx context.Context, a *app, _ []string) error {
	products, err := a.catalog.Featured(ctx)
	if err != nil {
		return err
	}
	printProducts(a, products)
	return nil
}

func categoriesCommand(ctx context.Context, a *app, _ []string) error {
	categories, err := a.catalog.Categories(ctx)
	if err != nil {
		return err
	}
	t := NewTableWriter("ID", "Categoría")
	for _, c := range categories {
		t.AddRow(strconv.FormatInt(c.ID, 10), c.Nombre)
	}
	t.Print(a.out)
	return nil
}

func productCommand(ctx context.Context, a *app, args []string) error {
	id, err := parseID(args, "shop product <id>")
	if err != nil {
		return err
	}
	p, err := a.catalog.Product(ctx, id)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%s\n", p.Nombre)
	fmt.Fprintf(a.out, "  %s\n", p.Descripcion)
	fmt.Fprintf(a.out, "  Categoría: %s\n", p.Categoria)
	if p.EnOferta() {
		fmt.Fprintf(a.out, "  Precio:    %s (antes %s)\n", pesos(p.Precio), pesos(p.PrecioOriginal))
	} else {
		fmt.Fprintf(a.out, "  Precio:    %s\n", pesos(p.Precio))
	}
	fmt.Fprintf(a.out, "  Stock:     %d\n", p.Stock)
	if p.EnvioGratis() {
		fmt.Fprintln(a.out, "  Envío gratis")
	}
	return nil
}

func bannersCommand(ctx context.Context, a *app, _ []string) error {
	banners, err := a.catalog.Banners(ctx)
	if err != nil {
		return err
	}
	for _, b := range banners {
		fmt.Fprintf(a.out, "[%s] %s: %s (%s -> %s)\n", b.Tag, b.Titulo, b.Subtitulo, b.TextoBoton, b.Enlace)
	}
	return nil
}

func cartCommand(ctx context.Context, a *app, args []string) error {
	action := "show"
	if len(args) > 0 {
		action, args = args[0], args[1:]
	}

	switch action {
	case "show":
	case "add":
		id, err := parseID(args, "shop cart add <id>")
		if err != nil {
			return err
		}
		p, err := a.catalog.Product(ctx, id)
		if err != nil {
			return err
		}
		a.cart.AddToCart(ctx, p.CartProduct())
	case "remove":
		id, err := parseID(args, "shop cart remove <id>")
		if err != nil {
			return err
		}
		a.cart.RemoveFromCart(ctx, id)
	case "set":
		id, err := parseID(args, "shop cart set <id> <qty>")
		if err != nil {
			return err
		}
		if len(args) < 2 {
			return fmt.Errorf("usage: shop cart set <id> <qty>")
		}
		qty, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid quantity %q", args[1])
		}
		a.cart.UpdateQuantity(ctx, id, qty)
	case "clear":
		a.cart.ClearCart(ctx)
	default:
		return fmt.Errorf("unknown cart action: %s", action)
	}

	printCart(a)
	return nil
}

func printCart(a *app) {
	items := a.cart.Items()
	if len(items) == 0 {
		fmt.Fprintln(a.out, "Tu carrito está vacío")
		return
	}
	t := NewTableWriter("ID", "Producto", "Cantidad", "Precio", "Subtotal")
	for _, item := range items {
		t.AddRow(
			strconv.FormatInt(item.ID, 10),
			item.Nombre,
			strconv.Itoa(item.Quantity),
			pesos(item.Precio),
			pesos(item.Precio*float64(item.Quantity)),
		)
	}
	t.Print(a.out)

	totals := a.checkout.Summary()
	fmt.Fprintf(a.out, "Productos: %d\n", a.cart.ItemsCount())
	fmt.Fprintf(a.out, "Subtotal:  $%s\n", email.FormatPesos(totals.Subtotal))
	fmt.Fprintf(a.out, "IVA (19%%): $%s\n", email.FormatPesos(totals.Tax))
	fmt.Fprintf(a.out, "Total:     $%s\n", email.FormatPesos(totals.Total))
}

func loginCommand(ctx context.Context, a *app, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: shop login <email> <password>")
	}
	if err := resultErr(a.session.Login(ctx, args[0], args[1])); err != nil {
		return err
	}
	return whoamiCommand(ctx, a, nil)
}

func registerCommand(ctx context.Context, a *app, args []string) error {
	cmd := &Command{Name: "register"}
	fs := cmd.NewFlagSet(a.out)
	var in session.Registration
	fs.StringVar(&in.Nombre, "nombre", "", "full name")
	fs.StringVar(&in.Email, "email", "", "email, also the username")
	fs.StringVar(&in.Password, "password", "", "password")
	fs.StringVar(&in.ConfirmPassword, "confirm", "", "password confirmation")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := resultErr(a.session.Register(ctx, in)); err != nil {
		return err
	}
	return whoamiCommand(ctx, a, nil)
}

func logoutCommand(ctx context.Context, a *app, _ []string) error {
	a.session.Logout(ctx)
	fmt.Fprintln(a.out, "Sesión cerrada")
	return nil
}

func whoamiCommand(_ context.Context, a *app, _ []string) error {
	user, ok := a.session.CurrentUser()
	if !ok {
		fmt.Fprintln(a.out, "No has iniciado sesión")
		return nil
	}
	fmt.Fprintf(a.out, "%s <%s>\n", user.Nombre, user.Email)
	return nil
}

func checkoutCommand(ctx context.Context, a *app, args []string) error {
	cmd := &Command{Name: "checkout"}
	fs := cmd.NewFlagSet(a.out)
	var form checkout.Form
	var pago string
	fs.StringVar(&form.Nombre, "nombre", "", "full name, defaults to the session user")
	fs.StringVar(&form.Email, "email", "", "email, defaults to the session user")
	fs.StringVar(&form.Direccion, "direccion", "", "delivery address")
	fs.StringVar(&form.Ciudad, "ciudad", "", "city")
	fs.StringVar(&form.Telefono, "telefono", "", "phone")
	fs.StringVar(&pago, "pago", string(order.PaymentCard), "payment method")
	fs.BoolVar(&form.Terminos, "terminos", false, "accept the terms and conditions")
	if err := fs.Parse(args); err != nil {
		return err
	}
	form.MetodoPago = order.PaymentMethod(pago)

	if user, ok := a.session.CurrentUser(); ok {
		if form.Nombre == "" {
			form.Nombre = user.Nombre
		}
		if form.Email == "" {
			form.Email = user.Email
		}
	}

	o, err := a.checkout.Place(ctx, form)
	if err != nil {
		var verr *apperrors.ValidationError
		if errors.As(err, &verr) {
			return errors.New(verr.Message)
		}
		return err
	}

	fmt.Fprintf(a.out, "¡Pedido confirmado! Número: %s\n", o.OrderNumber)
	fmt.Fprintf(a.out, "Productos: %d\n", o.ItemsCount())
	fmt.Fprintf(a.out, "Total pagado: $%s\n", email.FormatPesos(o.FinalTotal))
	return nil
}
