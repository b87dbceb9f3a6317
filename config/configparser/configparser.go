/*
   Configuration file parser.

   Copyright (c) 2024, Richard Cornwell

   Permission is hereby granted, free of charge, to any person obtaining a
   copy of this software and associated documentation files (the "Software"),
   to deal in the Software without restriction, including without limitation
   the rights to use, copy, modify, merge, publish, distribute, sublicense,
   and/or sell copies of the Software, and to permit persons to whom the
   Software is furnished to do so, subject to the following conditions:

   The above copyright notice and this permission notice shall be included in
   all copies or substantial portions of the Software.

   THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
   IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
   FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT.  IN NO EVENT SHALL
   ROBERT M SUPNIK BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER
   IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN
   CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.

*/

package configparser

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"unicode"
)

// NoAddr is passed to create functions when the first parameter is not
// a hex number.
const NoAddr uint16 = 0xffff

// List of options to pass to create routine.
type Option struct {
	Name     string    // Name of option.
	EqualOpt string    // Value of string after =.
	Value    []*string // Comma separated values following option.
}

// Option after model name.
type FirstOption struct {
	addr   uint16 // Value of option if hex.
	isAddr bool   // Valid address in addr.
	value  string // String value of option.
}

// Current line being parsed.
type configLine struct {
	line   string // Current line.
	pos    int    // Current position in line.
	number int    // Line number in file.
}

/* Configuration file format:
 *
 * '#' indicates comment, rest of line is ignored.
 * <line> := <model> <whitespace> <address> <whitespace> <options> |
 *            <option> <whitespace> <quoteopt> |
 *            <switch>
 * <address> ::= <hexnumber>
 * <options> ::= *(<option> *(<whitespace>))
 * <option> ::= <name> ['=' <quoteopt>] *(',' *(<whitespace>) <name>)
 * <quoteopt> ::= <string> | '"' *(<letter> | <whitespace>) '"'
 * <string> ::= *(<letter> | <number>)
 *
 * Example:
 *   CPU 0 BLOCK=100 NSPI=1 RUN
 *   PMU 0 MMCR1=0x1e000000
 *   DEBUGFILE pmu.log
 *   DEBUG PMU OVERFLOW,TIMER
 *   REALTIME
 */

const (
	TypeModel   = 1 + iota // Entry with address and options.
	TypeOption             // Accepts a single parameter.
	TypeOptions            // Accepts a name followed by options.
	TypeSwitch             // Entry only used to set a flag.
	TypeFile               // Accepts a file name.
)

type createFunc = func(uint16, string, []Option) error

// Model creation list.
type modelDef struct {
	create createFunc
	ty     int
}

var models = map[string]modelDef{}

func register(mod string, ty int, fn createFunc) {
	mod = strings.ToUpper(mod)
	slog.Debug("Registering config entry: " + mod)
	models[mod] = modelDef{create: fn, ty: ty}
}

// Register should be called from init functions.
func RegisterModel(mod string, ty int, fn createFunc) {
	register(mod, ty, fn)
}

// Register a switch, called from init functions.
func RegisterSwitch(mod string, fn createFunc) {
	register(mod, TypeSwitch, fn)
}

// Register an option with one parameter.
func RegisterOption(mod string, fn createFunc) {
	register(mod, TypeOption, fn)
}

// Register an option that takes a file name.
func RegisterFile(mod string, fn createFunc) {
	register(mod, TypeFile, fn)
}

// Return type of model or 0 if no model.
func getModel(mod string) int {
	model, ok := models[strings.ToUpper(mod)]
	if !ok {
		return 0
	}
	return model.ty
}

// Call the create function of a registered entry.
func create(mod string, ty int, first *FirstOption, options []Option) error {
	mod = strings.ToUpper(mod)
	model, ok := models[mod]
	if !ok {
		return errors.New("unknown model: " + mod)
	}
	if model.ty != ty {
		return fmt.Errorf("%s is not a %s entry", mod, typeName(ty))
	}
	if first == nil {
		return model.create(0, "", options)
	}
	if first.isAddr {
		return model.create(first.addr, first.value, options)
	}
	return model.create(NoAddr, first.value, options)
}

func typeName(ty int) string {
	switch ty {
	case TypeModel:
		return "model"
	case TypeOption, TypeFile:
		return "option"
	case TypeOptions:
		return "options"
	case TypeSwitch:
		return "switch"
	}
	return "unknown"
}

// Load in a configuration file.
func LoadConfigFile(name string) error {
	file, err := os.Open(name)
	if err != nil {
		return err
	}
	defer file.Close()
	return LoadConfig(file)
}

// Load configuration from a reader.
func LoadConfig(in io.Reader) error {
	reader := bufio.NewReader(in)
	number := 0
	for {
		text, err := reader.ReadString('\n')
		number++
		if len(text) == 0 && err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		line := configLine{line: strings.TrimRight(text, "\r\n"), number: number}
		if perr := line.parseLine(); perr != nil {
			return perr
		}
	}
}

// Parse one line from file.
func (line *configLine) parseLine() error {
	model := line.parseName()
	if model == "" {
		return nil
	}
	ty := getModel(model)
	switch ty {
	case TypeModel:
		first := line.parseFirst()
		if first == nil || !first.isAddr {
			return fmt.Errorf("%s requires an address, line: %d", model, line.number)
		}
		options, err := line.parseOptions()
		if err != nil {
			return err
		}
		return create(model, ty, first, options)

	case TypeOption, TypeFile:
		var first *FirstOption
		if ty == TypeFile {
			line.skipSpace()
			name, ok := line.parseFileName()
			if ok && name != "" {
				first = &FirstOption{addr: NoAddr, value: name}
			}
		} else {
			first = line.parseFirst()
		}
		line.skipSpace()
		if !line.isEOL() || first == nil {
			return fmt.Errorf("option: %s not followed by value, line: %d", model, line.number)
		}
		return create(model, ty, first, nil)

	case TypeOptions:
		first := line.parseFirst()
		if first == nil {
			return fmt.Errorf("option: %s not followed by value, line: %d", model, line.number)
		}
		options, err := line.parseOptions()
		if err != nil {
			return err
		}
		return create(model, ty, first, options)

	case TypeSwitch:
		line.skipSpace()
		if !line.isEOL() {
			return fmt.Errorf("switch: %s followed by options, line: %d", model, line.number)
		}
		return create(model, ty, nil, nil)
	}
	return fmt.Errorf("no type: %s registered, line: %d", model, line.number)
}

// Skip forward over line until none whitespace character found.
func (line *configLine) skipSpace() {
	for line.pos < len(line.line) && unicode.IsSpace(rune(line.line[line.pos])) {
		line.pos++
	}
}

// Check if at end of line.
func (line *configLine) isEOL() bool {
	return line.pos >= len(line.line) || line.line[line.pos] == '#'
}

// Collect letters and digits.
func (line *configLine) getAlnum() string {
	start := line.pos
	for !line.isEOL() {
		by := rune(line.line[line.pos])
		if !unicode.IsLetter(by) && !unicode.IsDigit(by) {
			break
		}
		line.pos++
	}
	return line.line[start:line.pos]
}

// Parse entry name.
func (line *configLine) parseName() string {
	line.skipSpace()
	if line.isEOL() {
		return ""
	}
	return strings.ToUpper(line.getAlnum())
}

// Parse first parameter, hex values are addresses.
func (line *configLine) parseFirst() *FirstOption {
	line.skipSpace()
	if line.isEOL() {
		return nil
	}
	value := line.getAlnum()
	if value == "" {
		return nil
	}

	option := FirstOption{addr: NoAddr, value: value}
	addr, err := strconv.ParseUint(value, 16, 12)
	if err == nil {
		option.addr = uint16(addr)
		option.isAddr = true
	}
	return &option
}

// Parse a file name, either quoted or up to white space.
func (line *configLine) parseFileName() (string, bool) {
	if line.isEOL() {
		return "", true
	}
	if line.line[line.pos] == '"' {
		line.pos--
		return line.parseQuoteString()
	}
	start := line.pos
	for !line.isEOL() && !unicode.IsSpace(rune(line.line[line.pos])) {
		line.pos++
	}
	return line.line[start:line.pos], true
}

// Parse string that is "string" or just string. Called with pos on the
// character before the string.
func (line *configLine) parseQuoteString() (string, bool) {
	line.pos++
	if line.pos >= len(line.line) {
		return "", true
	}

	if line.line[line.pos] != '"' {
		return line.getAlnum(), true
	}

	// Quoted string, "" is replaced by a single quote.
	var value strings.Builder
	line.pos++
	for line.pos < len(line.line) {
		by := line.line[line.pos]
		line.pos++
		if by == '"' {
			if line.pos < len(line.line) && line.line[line.pos] == '"' {
				value.WriteByte('"')
				line.pos++
				continue
			}
			return value.String(), true
		}
		value.WriteByte(by)
	}
	return value.String(), false
}

// Parse option name.
func (line *configLine) getName() (string, error) {
	if line.isEOL() {
		return "", nil
	}

	// First character must be alphabetic.
	if !unicode.IsLetter(rune(line.line[line.pos])) {
		return "", fmt.Errorf("invalid option encountered line: %d [%d]", line.number, line.pos)
	}
	return line.getAlnum(), nil
}

// Parse options for a line.
func (line *configLine) parseOption() (*Option, error) {
	line.skipSpace()

	value, err := line.getName()
	if value == "" {
		return nil, err
	}

	option := Option{Name: value}
	if line.isEOL() {
		return &option, nil
	}

	// Check if equals option.
	if line.line[line.pos] == '=' {
		v, ok := line.parseQuoteString()
		if !ok {
			return nil, fmt.Errorf("invalid quoted string line: %d [%d]", line.number, line.pos)
		}
		option.EqualOpt = v
	}

	line.skipSpace()

	// Grab all , options
	for !line.isEOL() && line.line[line.pos] == ',' {
		line.pos++
		line.skipSpace()
		v, err := line.getName()
		if err != nil {
			return nil, err
		}
		if v != "" {
			option.Value = append(option.Value, &v)
		}
		line.skipSpace()
	}

	return &option, nil
}

// Collect all options for line.
func (line *configLine) parseOptions() ([]Option, error) {
	options := []Option{}
	for {
		option, err := line.parseOption()
		if err != nil {
			return nil, err
		}
		if option == nil {
			break
		}
		options = append(options, *option)
	}
	return options, nil
}

// Return numeric value of option, 0x prefix selects hex.
func (opt *Option) Uint(bits int) (uint64, error) {
	text := strings.ToLower(opt.EqualOpt)
	if text == "" {
		return 0, errors.New("option " + opt.Name + " requires a value")
	}
	base := 10
	if strings.HasPrefix(text, "0x") {
		base = 16
		text = text[2:]
	}
	value, err := strconv.ParseUint(text, base, bits)
	if err != nil {
		return 0, fmt.Errorf("option %s value not valid: %s", opt.Name, opt.EqualOpt)
	}
	return value, nil
}
