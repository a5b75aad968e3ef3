package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/pflag"

	"github.com/and161185/repairflow/internal/api"
)

// session is what a subcommand gets to work with.
type session struct {
	cl        *api.RepairFlowClient
	out       io.Writer
	saveToken func(tokenFile) error
}

type command struct {
	usage  string
	public bool // callable without a token
	run    func(ctx context.Context, s *session, args []string) error
}

var commands = map[string]command{
	"login": {usage: "-u NAME -p PASSWORD (saves token)", public: true, run: cmdLogin},
	"me":    {usage: "show the logged-in identity", run: cmdMe},

	"clients":       {usage: "list clients", run: cmdClients},
	"client-get":    {usage: "--id ID", run: cmdClientGet},
	"client-add":    {usage: "--name N --tax-id T [--phone P] [--email E] [--wc 'name|address|phone']...", run: cmdClientAdd},
	"client-update": {usage: "--id ID [--name N] [--tax-id T] [--phone P] [--email E] [--wc ...]", run: cmdClientUpdate},
	"wc-add":        {usage: "--client ID --name N [--address A] [--phone P]", run: cmdWorkCenterAdd},
	"wc-rm":         {usage: "--client ID --id WC", run: cmdWorkCenterRemove},
	"wc-list":       {usage: "--client ID", run: cmdWorkCenterList},

	"equipment":          {usage: "[--view all|pending|reception|completed]", run: cmdEquipment},
	"equipment-get":      {usage: "--id ID", run: cmdEquipmentGet},
	"equipment-add":      {usage: "--client ID [--wc ID] --work-order W --serial S ...", run: cmdEquipmentAdd},
	"equipment-update":   {usage: "--id ID --file patch.json ('-'=stdin)", run: cmdEquipmentUpdate},
	"equipment-override": {usage: "--id ID --state Pending|Sent|AtManufacturer|Received (admin)", run: cmdEquipmentOverride},

	"po-assign":    {usage: "--number N --ids a,b,c", run: cmdOrderAssign},
	"po-list":      {usage: "list purchase order ledger", run: cmdOrderList},
	"po-active":    {usage: "list order numbers with equipment still Sent", run: cmdOrderActive},
	"po-equipment": {usage: "--number N [--sent]", run: cmdOrderEquipment},
	"po-respond":   {usage: "--number N --ids a,b --reception R [--warranty] [--quote Q] [--quote-accepted]", run: cmdOrderRespond},
	"receive":      {usage: "--ids a,b", run: cmdReceive},
	"export":       {usage: "--number N [--out file.csv|-]", run: cmdExport},

	"manufacturers":    {usage: "list manufacturers", run: cmdManufacturers},
	"manufacturer-add": {usage: "--name N", run: cmdManufacturerAdd},
	"models":           {usage: "[--type T]", run: cmdModels},
	"model-add":        {usage: "--name N --type T", run: cmdModelAdd},
	"fault-types":      {usage: "list fault types", run: cmdFaultTypes},
	"fault-type-add":   {usage: "--name N [--requires-sensor]", run: cmdFaultTypeAdd},

	"wipe": {usage: "--yes (admin, deletes everything)", run: cmdWipe},
}

// ------- flag helpers -------

func newFlags(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	return fs
}

func required(fs *pflag.FlagSet, names ...string) error {
	var missing []string
	for _, n := range names {
		f := fs.Lookup(n)
		if f == nil || strings.TrimSpace(f.Value.String()) == "" || f.Value.String() == "[]" {
			missing = append(missing, "--"+n)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("need %s", strings.Join(missing, " "))
	}
	return nil
}

// changed returns a pointer to the flag value only when the flag was given.
func changed(fs *pflag.FlagSet, name string) *string {
	if !fs.Changed(name) {
		return nil
	}
	v, _ := fs.GetString(name)
	return &v
}

// parseWorkCenter reads "name|address|phone"; address and phone may be omitted.
func parseWorkCenter(s string) (api.WorkCenter, error) {
	parts := strings.Split(s, "|")
	if len(parts) > 3 || strings.TrimSpace(parts[0]) == "" {
		return api.WorkCenter{}, fmt.Errorf("bad work center %q, want name|address|phone", s)
	}
	wc := api.WorkCenter{Name: strings.TrimSpace(parts[0])}
	if len(parts) > 1 && strings.TrimSpace(parts[1]) != "" {
		v := strings.TrimSpace(parts[1])
		wc.Address = &v
	}
	if len(parts) > 2 && strings.TrimSpace(parts[2]) != "" {
		v := strings.TrimSpace(parts[2])
		wc.Phone = &v
	}
	return wc, nil
}

func parseWorkCenters(raw []string) ([]api.WorkCenter, error) {
	out := make([]api.WorkCenter, 0, len(raw))
	for _, s := range raw {
		wc, err := parseWorkCenter(s)
		if err != nil {
			return nil, err
		}
		out = append(out, wc)
	}
	return out, nil
}

// ------- auth -------

func cmdLogin(ctx context.Context, s *session, args []string) error {
	fs := newFlags("login")
	u := fs.StringP("username", "u", "", "username")
	p := fs.StringP("password", "p", "", "password")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := required(fs, "username", "password"); err != nil {
		return err
	}
	resp, err := s.cl.Login(ctx, &api.LoginRequest{Username: *u, Password: *p})
	if err != nil {
		return err
	}
	if err := s.saveToken(tokenFile{Username: *u, AccessToken: resp.AccessToken, ExpiresAt: resp.ExpiresAt}); err != nil {
		return err
	}
	_, err = fmt.Fprintf(s.out, "ok (expires %s)\n", resp.ExpiresAt.Local().Format("2006-01-02 15:04"))
	return err
}

func cmdMe(ctx context.Context, s *session, _ []string) error {
	me, err := s.cl.Me(ctx, &api.Empty{})
	if err != nil {
		return err
	}
	return printJSON(s.out, me)
}

// ------- clients -------

func cmdClients(ctx context.Context, s *session, _ []string) error {
	out, err := s.cl.ListClients(ctx, &api.Empty{})
	if err != nil {
		return err
	}
	return printJSON(s.out, out.Clients)
}

func cmdClientGet(ctx context.Context, s *session, args []string) error {
	fs := newFlags("client-get")
	id := fs.String("id", "", "client id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := required(fs, "id"); err != nil {
		return err
	}
	c, err := s.cl.GetClient(ctx, &api.GetClientRequest{ID: *id})
	if err != nil {
		return err
	}
	return printJSON(s.out, c)
}

func cmdClientAdd(ctx context.Context, s *session, args []string) error {
	fs := newFlags("client-add")
	name := fs.String("name", "", "client name")
	taxID := fs.String("tax-id", "", "tax id (unique)")
	phone := fs.String("phone", "", "phone")
	email := fs.String("email", "", "email")
	wcs := fs.StringArray("wc", nil, "work center as name|address|phone (repeatable)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := required(fs, "name", "tax-id"); err != nil {
		return err
	}
	centers, err := parseWorkCenters(*wcs)
	if err != nil {
		return err
	}
	c, err := s.cl.CreateClient(ctx, &api.CreateClientRequest{
		Name: *name, TaxID: *taxID, Phone: *phone, Email: *email, WorkCenters: centers,
	})
	if err != nil {
		return err
	}
	return printJSON(s.out, c)
}

func cmdClientUpdate(ctx context.Context, s *session, args []string) error {
	fs := newFlags("client-update")
	id := fs.String("id", "", "client id")
	fs.String("name", "", "client name")
	fs.String("tax-id", "", "tax id")
	fs.String("phone", "", "phone")
	fs.String("email", "", "email")
	wcs := fs.StringArray("wc", nil, "replacement work center list, name|address|phone (repeatable)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := required(fs, "id"); err != nil {
		return err
	}
	centers, err := parseWorkCenters(*wcs)
	if err != nil {
		return err
	}
	c, err := s.cl.UpdateClient(ctx, &api.UpdateClientRequest{
		ID:          *id,
		Name:        changed(fs, "name"),
		TaxID:       changed(fs, "tax-id"),
		Phone:       changed(fs, "phone"),
		Email:       changed(fs, "email"),
		WorkCenters: centers,
	})
	if err != nil {
		return err
	}
	return printJSON(s.out, c)
}

func cmdWorkCenterAdd(ctx context.Context, s *session, args []string) error {
	fs := newFlags("wc-add")
	client := fs.String("client", "", "client id")
	name := fs.String("name", "", "work center name")
	fs.String("address", "", "address")
	fs.String("phone", "", "phone")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := required(fs, "client", "name"); err != nil {
		return err
	}
	wc, err := s.cl.AddWorkCenter(ctx, &api.AddWorkCenterRequest{
		ClientID:   *client,
		WorkCenter: api.WorkCenter{Name: *name, Address: changed(fs, "address"), Phone: changed(fs, "phone")},
	})
	if err != nil {
		return err
	}
	return printJSON(s.out, wc)
}

func cmdWorkCenterRemove(ctx context.Context, s *session, args []string) error {
	fs := newFlags("wc-rm")
	client := fs.String("client", "", "client id")
	id := fs.String("id", "", "work center id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := required(fs, "client", "id"); err != nil {
		return err
	}
	if _, err := s.cl.RemoveWorkCenter(ctx, &api.RemoveWorkCenterRequest{ClientID: *client, WorkCenterID: *id}); err != nil {
		return err
	}
	_, err := fmt.Fprintln(s.out, "ok")
	return err
}

func cmdWorkCenterList(ctx context.Context, s *session, args []string) error {
	fs := newFlags("wc-list")
	client := fs.String("client", "", "client id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := required(fs, "client"); err != nil {
		return err
	}
	out, err := s.cl.ListWorkCenters(ctx, &api.ListWorkCentersRequest{ClientID: *client})
	if err != nil {
		return err
	}
	return printJSON(s.out, out.WorkCenters)
}

// ------- equipment -------

func cmdEquipment(ctx context.Context, s *session, args []string) error {
	fs := newFlags("equipment")
	view := fs.String("view", "all", "all, pending, reception or completed")
	if err := fs.Parse(args); err != nil {
		return err
	}
	var (
		out *api.ListEquipmentResponse
		err error
	)
	switch *view {
	case "all":
		out, err = s.cl.ListEquipment(ctx, &api.Empty{})
	case "pending":
		out, err = s.cl.ListPendingEquipment(ctx, &api.Empty{})
	case "reception":
		out, err = s.cl.ListReceptionEquipment(ctx, &api.Empty{})
	case "completed":
		out, err = s.cl.ListCompletedEquipment(ctx, &api.Empty{})
	default:
		return fmt.Errorf("unknown view %q", *view)
	}
	if err != nil {
		return err
	}
	return printJSON(s.out, out.Equipment)
}

func cmdEquipmentGet(ctx context.Context, s *session, args []string) error {
	fs := newFlags("equipment-get")
	id := fs.String("id", "", "equipment id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := required(fs, "id"); err != nil {
		return err
	}
	e, err := s.cl.GetEquipment(ctx, &api.GetEquipmentRequest{ID: *id})
	if err != nil {
		return err
	}
	return printJSON(s.out, e)
}

func cmdEquipmentAdd(ctx context.Context, s *session, args []string) error {
	fs := newFlags("equipment-add")
	var req api.CreateEquipmentRequest
	fs.StringVar(&req.ClientID, "client", "", "client id")
	fs.StringVar(&req.WorkCenterID, "wc", "", "work center id")
	fs.StringVar(&req.WorkOrder, "work-order", "", "work order")
	fs.StringVar(&req.EquipmentType, "type", "", "equipment type")
	fs.StringVar(&req.Model, "model", "", "model")
	fs.StringVar(&req.ATO, "ato", "", "ATO")
	fs.StringVar(&req.Manufacturer, "manufacturer", "", "manufacturer")
	fs.StringVar(&req.SerialNumber, "serial", "", "serial number")
	fs.StringVar(&req.ManufactureDate, "manufacture-date", "", "manufacture date (YYYY-MM-DD)")
	fs.StringVar(&req.FaultType, "fault", "", "fault type")
	fs.StringVar(&req.Notes, "notes", "", "notes")
	fs.StringVar(&req.SensorSerialNumber, "sensor-serial", "", "sensor serial number")
	fs.StringVar(&req.SensorInstallDate, "sensor-date", "", "sensor install date (YYYY-MM-DD)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := required(fs, "client"); err != nil {
		return err
	}
	e, err := s.cl.CreateEquipment(ctx, &req)
	if err != nil {
		return err
	}
	return printJSON(s.out, e)
}

// cmdEquipmentUpdate sends a JSON patch, e.g. {"model": "X-200", "notes": "rechecked"}.
func cmdEquipmentUpdate(ctx context.Context, s *session, args []string) error {
	fs := newFlags("equipment-update")
	id := fs.String("id", "", "equipment id")
	file := fs.String("file", "", "patch JSON file ('-'=stdin)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := required(fs, "id", "file"); err != nil {
		return err
	}
	raw, err := readAll(*file)
	if err != nil {
		return err
	}
	var req api.UpdateEquipmentRequest
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return fmt.Errorf("patch: %w", err)
	}
	req.ID = *id
	e, err := s.cl.UpdateEquipment(ctx, &req)
	if err != nil {
		return err
	}
	return printJSON(s.out, e)
}

func cmdEquipmentOverride(ctx context.Context, s *session, args []string) error {
	fs := newFlags("equipment-override")
	id := fs.String("id", "", "equipment id")
	state := fs.String("state", "", "target state")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := required(fs, "id", "state"); err != nil {
		return err
	}
	e, err := s.cl.OverrideEquipmentState(ctx, &api.OverrideStateRequest{ID: *id, State: *state})
	if err != nil {
		return err
	}
	return printJSON(s.out, e)
}

// ------- purchase orders -------

func printCount(s *session, verb string, c *api.CountResponse) error {
	_, err := fmt.Fprintf(s.out, "%s %d\n", verb, c.Count)
	return err
}

func cmdOrderAssign(ctx context.Context, s *session, args []string) error {
	fs := newFlags("po-assign")
	number := fs.String("number", "", "purchase order number")
	ids := fs.StringSlice("ids", nil, "equipment ids")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := required(fs, "number", "ids"); err != nil {
		return err
	}
	c, err := s.cl.AssignPurchaseOrder(ctx, &api.AssignOrderRequest{OrderNumber: *number, EquipmentIDs: *ids})
	if err != nil {
		return err
	}
	return printCount(s, "sent", c)
}

func cmdOrderList(ctx context.Context, s *session, _ []string) error {
	out, err := s.cl.ListPurchaseOrders(ctx, &api.Empty{})
	if err != nil {
		return err
	}
	return printJSON(s.out, out.Orders)
}

func cmdOrderActive(ctx context.Context, s *session, _ []string) error {
	out, err := s.cl.ListActiveOrders(ctx, &api.Empty{})
	if err != nil {
		return err
	}
	for _, n := range out.OrderNumbers {
		if _, err := fmt.Fprintln(s.out, n); err != nil {
			return err
		}
	}
	return nil
}

func cmdOrderEquipment(ctx context.Context, s *session, args []string) error {
	fs := newFlags("po-equipment")
	number := fs.String("number", "", "purchase order number")
	sent := fs.Bool("sent", false, "only equipment still in Sent")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := required(fs, "number"); err != nil {
		return err
	}
	req := &api.OrderRequest{OrderNumber: *number}
	var (
		out *api.ListEquipmentResponse
		err error
	)
	if *sent {
		out, err = s.cl.ListSentOrderEquipment(ctx, req)
	} else {
		out, err = s.cl.ListOrderEquipment(ctx, req)
	}
	if err != nil {
		return err
	}
	return printJSON(s.out, out.Equipment)
}

func cmdOrderRespond(ctx context.Context, s *session, args []string) error {
	fs := newFlags("po-respond")
	number := fs.String("number", "", "purchase order number")
	ids := fs.StringSlice("ids", nil, "equipment ids")
	reception := fs.String("reception", "", "manufacturer reception number")
	warranty := fs.Bool("warranty", false, "repair is under warranty")
	fs.String("quote", "", "quote number (non-warranty)")
	accepted := fs.Bool("quote-accepted", false, "quote accepted (non-warranty)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := required(fs, "number", "ids", "reception"); err != nil {
		return err
	}
	req := &api.ManufacturerResponseRequest{
		OrderNumber:     *number,
		EquipmentIDs:    *ids,
		ReceptionNumber: *reception,
		UnderWarranty:   *warranty,
		QuoteNumber:     changed(fs, "quote"),
	}
	if fs.Changed("quote-accepted") {
		req.QuoteAccepted = accepted
	}
	c, err := s.cl.RecordManufacturerResponse(ctx, req)
	if err != nil {
		return err
	}
	return printCount(s, "updated", c)
}

func cmdReceive(ctx context.Context, s *session, args []string) error {
	fs := newFlags("receive")
	ids := fs.StringSlice("ids", nil, "equipment ids")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := required(fs, "ids"); err != nil {
		return err
	}
	c, err := s.cl.ReceiveEquipment(ctx, &api.ReceiveRequest{EquipmentIDs: *ids})
	if err != nil {
		return err
	}
	return printCount(s, "received", c)
}

func cmdExport(ctx context.Context, s *session, args []string) error {
	fs := newFlags("export")
	number := fs.String("number", "", "purchase order number")
	out := fs.String("out", "", "write CSV to file ('-'=stdout); default: the server's filename")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := required(fs, "number"); err != nil {
		return err
	}
	exp, err := s.cl.ExportOrder(ctx, &api.OrderRequest{OrderNumber: *number})
	if err != nil {
		return err
	}
	if *out == "-" {
		_, err := io.WriteString(s.out, exp.Content)
		return err
	}
	path := choose(*out, exp.Filename)
	if err := os.WriteFile(path, []byte(exp.Content), 0o600); err != nil {
		return err
	}
	msg := fmt.Sprintf("wrote %d rows to %s", exp.EquipmentCount, path)
	if exp.ArchiveKey != "" {
		msg += " (archived as " + exp.ArchiveKey + ")"
	}
	_, err = fmt.Fprintln(s.out, msg)
	return err
}

// ------- catalog -------

func cmdManufacturers(ctx context.Context, s *session, _ []string) error {
	out, err := s.cl.ListManufacturers(ctx, &api.Empty{})
	if err != nil {
		return err
	}
	return printJSON(s.out, out.Manufacturers)
}

func cmdManufacturerAdd(ctx context.Context, s *session, args []string) error {
	fs := newFlags("manufacturer-add")
	name := fs.String("name", "", "manufacturer name")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := required(fs, "name"); err != nil {
		return err
	}
	m, err := s.cl.CreateManufacturer(ctx, &api.CreateManufacturerRequest{Name: *name})
	if err != nil {
		return err
	}
	return printJSON(s.out, m)
}

func cmdModels(ctx context.Context, s *session, args []string) error {
	fs := newFlags("models")
	typ := fs.String("type", "", "filter by equipment type")
	if err := fs.Parse(args); err != nil {
		return err
	}
	out, err := s.cl.ListModels(ctx, &api.ListModelsRequest{EquipmentType: *typ})
	if err != nil {
		return err
	}
	return printJSON(s.out, out.Models)
}

func cmdModelAdd(ctx context.Context, s *session, args []string) error {
	fs := newFlags("model-add")
	name := fs.String("name", "", "model name")
	typ := fs.String("type", "", "equipment type")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := required(fs, "name", "type"); err != nil {
		return err
	}
	m, err := s.cl.CreateModel(ctx, &api.CreateModelRequest{Name: *name, EquipmentType: *typ})
	if err != nil {
		return err
	}
	return printJSON(s.out, m)
}

func cmdFaultTypes(ctx context.Context, s *session, _ []string) error {
	out, err := s.cl.ListFaultTypes(ctx, &api.Empty{})
	if err != nil {
		return err
	}
	return printJSON(s.out, out.FaultTypes)
}

func cmdFaultTypeAdd(ctx context.Context, s *session, args []string) error {
	fs := newFlags("fault-type-add")
	name := fs.String("name", "", "fault type name")
	sensor := fs.Bool("requires-sensor", false, "fault needs sensor data")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := required(fs, "name"); err != nil {
		return err
	}
	ft, err := s.cl.CreateFaultType(ctx, &api.CreateFaultTypeRequest{Name: *name, RequiresSensor: *sensor})
	if err != nil {
		return err
	}
	return printJSON(s.out, ft)
}

// ------- admin -------

func cmdWipe(ctx context.Context, s *session, args []string) error {
	fs := newFlags("wipe")
	yes := fs.Bool("yes", false, "confirm")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if !*yes {
		return errors.New("refusing to wipe without --yes")
	}
	out, err := s.cl.WipeDatabase(ctx, &api.Empty{})
	if err != nil {
		return err
	}
	return printJSON(s.out, out.Deleted)
}

func choose(a, b string) string {
	if a != "" {
		return a
	}
	return b
}
