// Package shell is the interactive diagnostics console: a line REPL over
// any io.ReadWriter that exposes the acquisition engine and the datastore.
// Every command answers with a single "SUCCESS: ..." or "FAIL <errno>: ..."
// line so transcripts are machine-checkable.
package shell

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/shlex"

	"sensornode-go/errcode"
	"sensornode-go/services/adcacq"
	"sensornode-go/services/datastore"
	"sensornode-go/types"
	"sensornode-go/x/logx"
)

const prompt = "> "

// Shell dispatches console commands against the wired services.
type Shell struct {
	engine *adcacq.Engine
	store  *datastore.Store
	log    *logx.Logger
}

func New(engine *adcacq.Engine, store *datastore.Store) *Shell {
	return &Shell{engine: engine, store: store, log: logx.New("shell")}
}

// Run reads lines from rw until EOF or ctx cancellation. Each line is
// tokenized with shell quoting rules; empty lines just reprint the prompt.
func (s *Shell) Run(ctx context.Context, rw io.ReadWriter) error {
	s.log.Infof("console attached")
	sc := bufio.NewScanner(rw)
	fmt.Fprint(rw, prompt)
	for sc.Scan() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		line := strings.TrimSpace(sc.Text())
		if line != "" {
			s.dispatch(rw, line)
		}
		fmt.Fprint(rw, prompt)
	}
	return sc.Err()
}

func (s *Shell) dispatch(w io.Writer, line string) {
	args, err := shlex.Split(line)
	if err != nil {
		fail(w, errcode.InvalidParams, "unbalanced quoting")
		return
	}
	if len(args) == 0 {
		return
	}
	switch args[0] {
	case "adc_acq":
		s.adcCmd(w, args[1:])
	case "datastore":
		s.storeCmd(w, args[1:])
	case "help":
		s.help(w)
	default:
		fail(w, errcode.NotFound, "unknown command %q, try help", args[0])
	}
}

func (s *Shell) help(w io.Writer) {
	fmt.Fprint(w, ""+
		"adc_acq get_chan_count\n"+
		"adc_acq get_raw <chan_id>\n"+
		"adc_acq get_volt <chan_id>\n"+
		"datastore binary_data      {ls | read <id> [count] | write <id> <count> <true|false>...}\n"+
		"datastore button_data      {ls | read <id> [count] | write <id> <count> <unpressed|short_pressed|long_pressed>...}\n"+
		"datastore float_data       {ls | read <id> [count] | write <id> <count> <float>...}\n"+
		"datastore int_data         {ls | read <id> [count] | write <id> <count> <int>...}\n"+
		"datastore multi_state_data {ls | read <id> [count] | write <id> <count> <uint>...}\n"+
		"datastore uint_data        {ls | read <id> [count] | write <id> <count> <uint>...}\n")
}

// -----------------------------------------------------------------------------
// adc_acq commands
// -----------------------------------------------------------------------------

func (s *Shell) adcCmd(w io.Writer, args []string) {
	if len(args) == 0 {
		fail(w, errcode.InvalidParams, "missing subcommand")
		return
	}
	switch args[0] {
	case "get_chan_count":
		success(w, "%d", s.engine.ChanCount())
	case "get_raw":
		ch, ok := chanArg(w, args[1:])
		if !ok {
			return
		}
		v, err := s.engine.Raw(ch)
		if err != nil {
			fail(w, errcode.Of(err), "channel %d", ch)
			return
		}
		success(w, "%d", v)
	case "get_volt":
		ch, ok := chanArg(w, args[1:])
		if !ok {
			return
		}
		v, err := s.engine.Volt(ch)
		if err != nil {
			fail(w, errcode.Of(err), "channel %d", ch)
			return
		}
		success(w, "%.4f", v)
	default:
		fail(w, errcode.NotFound, "unknown adc_acq subcommand %q", args[0])
	}
}

func chanArg(w io.Writer, args []string) (int, bool) {
	if len(args) != 1 {
		fail(w, errcode.InvalidParams, "expected <chan_id>")
		return 0, false
	}
	ch, err := strconv.Atoi(args[0])
	if err != nil {
		fail(w, errcode.InvalidParams, "bad channel %q", args[0])
		return 0, false
	}
	return ch, true
}

// -----------------------------------------------------------------------------
// datastore commands
// -----------------------------------------------------------------------------

var tableTypes = map[string]types.DatapointType{
	"binary_data":      types.Binary,
	"button_data":      types.Button,
	"float_data":       types.Float,
	"int_data":         types.Int,
	"multi_state_data": types.MultiState,
	"uint_data":        types.Uint,
}

func (s *Shell) storeCmd(w io.Writer, args []string) {
	if len(args) < 2 {
		fail(w, errcode.InvalidParams, "expected <table> <ls|read|write>")
		return
	}
	typ, ok := tableTypes[args[0]]
	if !ok {
		fail(w, errcode.NotFound, "unknown table %q", args[0])
		return
	}
	switch args[1] {
	case "ls":
		s.lsCmd(w, typ)
	case "read":
		s.readCmd(w, typ, args[2:])
	case "write":
		s.writeCmd(w, typ, args[2:])
	default:
		fail(w, errcode.NotFound, "unknown datastore subcommand %q", args[1])
	}
}

func (s *Shell) lsCmd(w io.Writer, typ types.DatapointType) {
	names := datastore.Names(typ)
	words, err := s.readWords(typ, 0, len(names))
	if err != nil {
		fail(w, errcode.Of(err), "unable to read %s arena", typ)
		return
	}
	for id, name := range names {
		fmt.Fprintf(w, "%3d  %-24s %s\n", id, name, formatWord(typ, words[id]))
	}
	success(w, "%d datapoints", len(names))
}

func (s *Shell) readCmd(w io.Writer, typ types.DatapointType, args []string) {
	if len(args) < 1 || len(args) > 2 {
		fail(w, errcode.InvalidParams, "expected <id> [count]")
		return
	}
	id, err := strconv.ParseUint(args[0], 10, 32)
	if err != nil {
		fail(w, errcode.InvalidParams, "bad id %q", args[0])
		return
	}
	count := 1
	if len(args) == 2 {
		count, err = strconv.Atoi(args[1])
		if err != nil || count <= 0 {
			fail(w, errcode.InvalidParams, "bad count %q", args[1])
			return
		}
	}
	words, err := s.readWords(typ, uint32(id), count)
	if err != nil {
		fail(w, errcode.Of(err), "read %s %d +%d", typ, id, count)
		return
	}
	parts := make([]string, count)
	for i := 0; i < count; i++ {
		parts[i] = formatWord(typ, words[i])
	}
	success(w, "%s", strings.Join(parts, " "))
}

func (s *Shell) writeCmd(w io.Writer, typ types.DatapointType, args []string) {
	if len(args) < 2 {
		fail(w, errcode.InvalidParams, "expected <id> <count> <values...>")
		return
	}
	id, err := strconv.ParseUint(args[0], 10, 32)
	if err != nil {
		fail(w, errcode.InvalidParams, "bad id %q", args[0])
		return
	}
	count, err := strconv.Atoi(args[1])
	if err != nil || count <= 0 {
		fail(w, errcode.InvalidParams, "bad count %q", args[1])
		return
	}
	if len(args[2:]) != count {
		fail(w, errcode.InvalidParams, "expected %d values, got %d", count, len(args[2:]))
		return
	}
	words := make([]types.Word, count)
	for i, lit := range args[2:] {
		word, err := parseWord(typ, lit)
		if err != nil {
			fail(w, errcode.InvalidParams, "bad %s value %q", typ, lit)
			return
		}
		words[i] = word
	}
	if err := s.writeWords(typ, uint32(id), words); err != nil {
		fail(w, errcode.Of(err), "write %s %d +%d", typ, id, count)
		return
	}
	success(w, "%d values written", count)
}

// readWords/writeWords funnel the shell through the same typed public API
// the rest of the firmware uses, so the console exercises the real paths.
func (s *Shell) readWords(typ types.DatapointType, id uint32, count int) ([]types.Word, error) {
	resp := make(chan datastore.Response, 1)
	words := make([]types.Word, count)
	switch typ {
	case types.Binary:
		out := make([]bool, count)
		if err := s.store.ReadBinary(id, count, resp, out); err != nil {
			return nil, err
		}
		for i, v := range out {
			words[i] = types.BoolWord(v)
		}
	case types.Button:
		out := make([]types.ButtonState, count)
		if err := s.store.ReadButton(id, count, resp, out); err != nil {
			return nil, err
		}
		for i, v := range out {
			words[i] = types.ButtonWord(v)
		}
	case types.Float:
		out := make([]float32, count)
		if err := s.store.ReadFloat(id, count, resp, out); err != nil {
			return nil, err
		}
		for i, v := range out {
			words[i] = types.FloatWord(v)
		}
	case types.Int:
		out := make([]int32, count)
		if err := s.store.ReadInt(id, count, resp, out); err != nil {
			return nil, err
		}
		for i, v := range out {
			words[i] = types.IntWord(v)
		}
	case types.MultiState:
		out := make([]uint32, count)
		if err := s.store.ReadMultiState(id, count, resp, out); err != nil {
			return nil, err
		}
		for i, v := range out {
			words[i] = types.UintWord(v)
		}
	case types.Uint:
		out := make([]uint32, count)
		if err := s.store.ReadUint(id, count, resp, out); err != nil {
			return nil, err
		}
		for i, v := range out {
			words[i] = types.UintWord(v)
		}
	default:
		return nil, errcode.InvalidParams
	}
	return words, nil
}

func (s *Shell) writeWords(typ types.DatapointType, id uint32, words []types.Word) error {
	resp := make(chan datastore.Response, 1)
	switch typ {
	case types.Binary:
		vals := make([]bool, len(words))
		for i, word := range words {
			vals[i] = word.Bool()
		}
		return s.store.WriteBinary(id, vals, resp)
	case types.Button:
		vals := make([]types.ButtonState, len(words))
		for i, word := range words {
			vals[i] = word.Button()
		}
		return s.store.WriteButton(id, vals, resp)
	case types.Float:
		vals := make([]float32, len(words))
		for i, word := range words {
			vals[i] = word.Float()
		}
		return s.store.WriteFloat(id, vals, resp)
	case types.Int:
		vals := make([]int32, len(words))
		for i, word := range words {
			vals[i] = word.Int()
		}
		return s.store.WriteInt(id, vals, resp)
	case types.MultiState:
		vals := make([]uint32, len(words))
		for i, word := range words {
			vals[i] = word.Uint()
		}
		return s.store.WriteMultiState(id, vals, resp)
	case types.Uint:
		vals := make([]uint32, len(words))
		for i, word := range words {
			vals[i] = word.Uint()
		}
		return s.store.WriteUint(id, vals, resp)
	default:
		return errcode.InvalidParams
	}
}

// -----------------------------------------------------------------------------
// Value literals
// -----------------------------------------------------------------------------

func parseWord(typ types.DatapointType, lit string) (types.Word, error) {
	switch typ {
	case types.Binary:
		switch lit {
		case "true":
			return types.BoolWord(true), nil
		case "false":
			return types.BoolWord(false), nil
		}
	case types.Button:
		switch lit {
		case "unpressed":
			return types.ButtonWord(types.ButtonUnpressed), nil
		case "short_pressed":
			return types.ButtonWord(types.ButtonShortPressed), nil
		case "long_pressed":
			return types.ButtonWord(types.ButtonLongPressed), nil
		}
	case types.Float:
		v, err := strconv.ParseFloat(lit, 32)
		if err == nil {
			return types.FloatWord(float32(v)), nil
		}
	case types.Int:
		v, err := strconv.ParseInt(lit, 10, 32)
		if err == nil {
			return types.IntWord(int32(v)), nil
		}
	case types.MultiState, types.Uint:
		v, err := strconv.ParseUint(lit, 10, 32)
		if err == nil {
			return types.UintWord(uint32(v)), nil
		}
	}
	return 0, errcode.InvalidParams
}

func formatWord(typ types.DatapointType, word types.Word) string {
	switch typ {
	case types.Binary:
		return strconv.FormatBool(word.Bool())
	case types.Button:
		return word.Button().String()
	case types.Float:
		return strconv.FormatFloat(float64(word.Float()), 'g', -1, 32)
	case types.Int:
		return strconv.FormatInt(int64(word.Int()), 10)
	default:
		return strconv.FormatUint(uint64(word.Uint()), 10)
	}
}

func success(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "SUCCESS: "+format+"\n", args...)
}

func fail(w io.Writer, c errcode.Code, format string, args ...any) {
	fmt.Fprintf(w, "FAIL %d: "+format+"\n", append([]any{errcode.Errno(c)}, args...)...)
}
