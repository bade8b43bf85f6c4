// Package interactive provides the interactive command-line console of
// vhald. It stands in for the framework caller: every command goes
// through the same bridge operations a client would use.
package interactive

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/chzyer/readline"

	"github.com/rcar-vhal/vhal-go/pkg/defaults"
	"github.com/rcar-vhal/vhal-go/pkg/model"
)

// Vehicle is the bridge surface driven by the console.
type Vehicle interface {
	ListProperties() []model.PropertyConfig
	Get(req model.PropertyValue) (model.PropertyValue, error)
	Set(value model.PropertyValue) error
	Subscribe(prop int32, sampleRateHz float32) error
	Unsubscribe(prop int32) error
	Values() []model.PropertyValue
}

// Console handles interactive mode for vhald.
type Console struct {
	vehicle Vehicle
	rl      *readline.Instance
	out     io.Writer
	watch   atomic.Bool

	closeOnce sync.Once

	now func() int64
}

// New creates a console reading from the terminal.
func New(v Vehicle) (*Console, error) {
	c := newConsole(v, os.Stdout)

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "vhal> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		AutoComplete:    c.completer(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}
	c.rl = rl
	c.out = rl.Stdout()
	return c, nil
}

func newConsole(v Vehicle, out io.Writer) *Console {
	return &Console{
		vehicle: v,
		out:     out,
		now:     model.ElapsedRealtimeNano,
	}
}

// Stdout returns a writer that coordinates with the readline prompt. Use
// it for log output.
func (c *Console) Stdout() io.Writer {
	return c.out
}

// HandleEvent prints property events while watch mode is on.
func (c *Console) HandleEvent(v model.PropertyValue) {
	if c.watch.Load() {
		fmt.Fprintf(c.out, "[EVENT] %s\n", v.String())
	}
}

// Close restores the terminal. A pending Run returns.
func (c *Console) Close() error {
	var err error
	c.closeOnce.Do(func() {
		if c.rl != nil {
			err = c.rl.Close()
		}
	})
	return err
}

// Run reads commands until quit, EOF or Close. It calls stop when the
// loop ends.
func (c *Console) Run(stop func()) {
	c.printHelp()

	for {
		line, err := c.rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			fmt.Fprintln(c.out, "Exiting...")
			stop()
			return
		}

		if !c.Execute(line) {
			fmt.Fprintln(c.out, "Exiting...")
			stop()
			return
		}
	}
}

// Execute runs one command line and reports whether the console should
// keep going.
func (c *Console) Execute(line string) bool {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return true
	}
	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "help", "?":
		c.printHelp()
	case "list", "ls":
		c.cmdList()
	case "get", "g":
		c.cmdGet(args)
	case "set", "s":
		c.cmdSet(args)
	case "subscribe", "sub":
		c.cmdSubscribe(args)
	case "unsubscribe", "unsub":
		c.cmdUnsubscribe(args)
	case "dump", "d":
		c.cmdDump()
	case "watch":
		c.cmdWatch(args)
	case "quit", "exit", "q":
		return false
	default:
		fmt.Fprintf(c.out, "Unknown command: %s (type 'help' for commands)\n", cmd)
	}
	return true
}

func (c *Console) printHelp() {
	fmt.Fprintln(c.out, `
Vehicle HAL Commands:
  Properties:
    list                          - List property configurations
    get <prop> [area] [value]     - Read a property (value for user requests)
    set <prop> [area] <value...>  - Write a property
    dump                          - Show every stored value

  Subscriptions:
    subscribe <prop> <hz>         - Republish a continuous property
    unsubscribe <prop>            - Stop republishing
    watch [on|off]                - Print property events

  General:
    help                          - Show this help
    quit                          - Exit

  Values:
    i32:1,2  f:12.5  i64:7  bytes:0a0b  str:text
    Bare numbers are int32, or float with a dot.
  Properties take names (HVAC_FAN_SPEED) or ids.
  Areas take names (HVAC_LEFT) or 0x ids and default to 0.`)
}

func (c *Console) cmdList() {
	configs := c.vehicle.ListProperties()
	fmt.Fprintf(c.out, "\nProperties (%d):\n", len(configs))
	for _, cfg := range configs {
		fmt.Fprintf(c.out, "  %-36s 0x%08x  %-10s %-10s", model.PropertyName(cfg.Prop), uint32(cfg.Prop), cfg.Access, cfg.ChangeMode)
		if cfg.IsContinuous() {
			fmt.Fprintf(c.out, " %g-%g Hz", cfg.MinSampleRate, cfg.MaxSampleRate)
		}
		if len(cfg.AreaConfigs) > 0 {
			areas := make([]string, 0, len(cfg.AreaConfigs))
			for _, a := range cfg.AreaConfigs {
				areas = append(areas, fmt.Sprintf("0x%x", a.AreaID))
			}
			fmt.Fprintf(c.out, " areas=%s", strings.Join(areas, ","))
		}
		fmt.Fprintln(c.out)
	}
}

// parseTarget splits "<prop> [area] rest..." and returns the remaining
// tokens. An area is a name or a 0x id and is never taken for global
// properties, so bare numbers always start the value.
func parseTarget(args []string) (prop, area int32, rest []string, err error) {
	if len(args) == 0 {
		return 0, 0, nil, fmt.Errorf("missing property")
	}
	prop, err = model.ParseProperty(args[0])
	if err != nil {
		return 0, 0, nil, err
	}
	rest = args[1:]

	if len(rest) > 0 && !model.IsGlobal(prop) && isAreaToken(rest[0]) {
		if a, aerr := defaults.ParseArea(rest[0]); aerr == nil {
			return prop, a, rest[1:], nil
		}
	}
	return prop, 0, rest, nil
}

func isAreaToken(s string) bool {
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		return true
	}
	if strings.Contains(s, ":") {
		return false
	}
	_, err := strconv.ParseFloat(s, 64)
	return err != nil
}

func (c *Console) cmdGet(args []string) {
	prop, area, rest, err := parseTarget(args)
	if err != nil {
		fmt.Fprintln(c.out, "Usage: get <prop> [area] [value]")
		fmt.Fprintf(c.out, "Error: %v\n", err)
		return
	}

	req := model.PropertyValue{Prop: prop, AreaID: area, Timestamp: c.now()}
	if len(rest) > 0 {
		if req.Value, err = parseValue(rest); err != nil {
			fmt.Fprintf(c.out, "Error: %v\n", err)
			return
		}
	}

	v, err := c.vehicle.Get(req)
	if err != nil {
		fmt.Fprintf(c.out, "Get failed: %v\n", err)
		return
	}
	fmt.Fprintf(c.out, "%s = %s\n", model.PropertyName(prop), v.Value.String())
}

func (c *Console) cmdSet(args []string) {
	prop, area, rest, err := parseTarget(args)
	if err == nil && len(rest) == 0 {
		err = fmt.Errorf("missing value")
	}
	if err != nil {
		fmt.Fprintln(c.out, "Usage: set <prop> [area] <value...>")
		fmt.Fprintln(c.out, "  Example: set HVAC_FAN_SPEED HVAC_LEFT 3")
		fmt.Fprintf(c.out, "Error: %v\n", err)
		return
	}

	value, err := parseValue(rest)
	if err != nil {
		fmt.Fprintf(c.out, "Error: %v\n", err)
		return
	}

	err = c.vehicle.Set(model.PropertyValue{
		Prop:      prop,
		AreaID:    area,
		Timestamp: c.now(),
		Value:     value,
	})
	if err != nil {
		fmt.Fprintf(c.out, "Set failed: %v\n", err)
		return
	}
	fmt.Fprintln(c.out, "OK")
}

func (c *Console) cmdSubscribe(args []string) {
	if len(args) != 2 {
		fmt.Fprintln(c.out, "Usage: subscribe <prop> <hz>")
		return
	}
	prop, err := model.ParseProperty(args[0])
	if err != nil {
		fmt.Fprintf(c.out, "Error: %v\n", err)
		return
	}
	hz, err := strconv.ParseFloat(args[1], 32)
	if err != nil {
		fmt.Fprintf(c.out, "Invalid rate: %s\n", args[1])
		return
	}

	if err := c.vehicle.Subscribe(prop, float32(hz)); err != nil {
		fmt.Fprintf(c.out, "Subscribe failed: %v\n", err)
		return
	}
	fmt.Fprintln(c.out, "OK")
}

func (c *Console) cmdUnsubscribe(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(c.out, "Usage: unsubscribe <prop>")
		return
	}
	prop, err := model.ParseProperty(args[0])
	if err != nil {
		fmt.Fprintf(c.out, "Error: %v\n", err)
		return
	}

	if err := c.vehicle.Unsubscribe(prop); err != nil {
		fmt.Fprintf(c.out, "Unsubscribe failed: %v\n", err)
		return
	}
	fmt.Fprintln(c.out, "OK")
}

func (c *Console) cmdDump() {
	values := c.vehicle.Values()
	fmt.Fprintf(c.out, "\nStored values (%d):\n", len(values))
	for _, v := range values {
		fmt.Fprintf(c.out, "  %-36s area=0x%-4x ts=%-16d %s\n",
			model.PropertyName(v.Prop), v.AreaID, v.Timestamp, v.Value.String())
	}
}

func (c *Console) cmdWatch(args []string) {
	switch {
	case len(args) == 0:
		c.watch.Store(!c.watch.Load())
	case strings.EqualFold(args[0], "on"):
		c.watch.Store(true)
	case strings.EqualFold(args[0], "off"):
		c.watch.Store(false)
	default:
		fmt.Fprintln(c.out, "Usage: watch [on|off]")
		return
	}

	state := "off"
	if c.watch.Load() {
		state = "on"
	}
	fmt.Fprintf(c.out, "Watch %s\n", state)
}

func (c *Console) propertyNames(string) []string {
	configs := c.vehicle.ListProperties()
	names := make([]string, 0, len(configs))
	for _, cfg := range configs {
		names = append(names, model.PropertyName(cfg.Prop))
	}
	slices.Sort(names)
	return names
}

func (c *Console) completer() *readline.PrefixCompleter {
	props := readline.PcItemDynamic(c.propertyNames)
	return readline.NewPrefixCompleter(
		readline.PcItem("help"),
		readline.PcItem("list"),
		readline.PcItem("get", props),
		readline.PcItem("set", props),
		readline.PcItem("subscribe", props),
		readline.PcItem("unsubscribe", props),
		readline.PcItem("dump"),
		readline.PcItem("watch", readline.PcItem("on"), readline.PcItem("off")),
		readline.PcItem("quit"),
	)
}
