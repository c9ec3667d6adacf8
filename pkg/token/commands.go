package token

// Hansl commands are ordinary words rather than reserved tokens, so they
// lex as IDENT and are classified through the tables below. Block commands
// open a region that runs until a matching "end <command>" line.

// commands holds the gretl command words. Command position is the start of
// a logical line (after an optional catch prefix).
var commands = map[string]bool{
	"add": true, "adf": true, "anova": true, "append": true, "ar": true,
	"ar1": true, "arch": true, "arima": true, "biprobit": true,
	"boxplot": true, "chow": true, "clear": true, "coeffsum": true,
	"coint": true, "coint2": true, "corr": true, "corrgm": true,
	"cusum": true, "data": true, "dataset": true, "delete": true,
	"diff": true, "difftest": true, "discrete": true, "dpanel": true,
	"dummify": true, "duration": true, "eqnprint": true, "equation": true,
	"estimate": true, "eval": true, "fcast": true, "flush": true,
	"foreign": true, "fractint": true, "freq": true, "garch": true,
	"gmm": true, "gnuplot": true, "gpbuild": true, "graphpg": true,
	"hausman": true, "heckit": true, "help": true, "hfplot": true,
	"hsk": true, "hurst": true, "include": true, "info": true,
	"intreg": true, "join": true, "kpss": true, "labels": true,
	"lad": true, "lags": true, "ldiff": true, "leverage": true,
	"levinlin": true, "logistic": true, "logit": true, "logs": true,
	"mahal": true, "makepkg": true, "markers": true, "meantest": true,
	"midasreg": true, "mle": true, "modeltab": true, "modprint": true,
	"modtest": true, "mpi": true, "mpols": true, "negbin": true,
	"nls": true, "normtest": true, "nulldata": true, "ols": true,
	"omit": true, "open": true, "orthdev": true, "outfile": true,
	"panel": true, "pca": true, "pergm": true, "pkg": true, "plot": true,
	"poisson": true, "print": true, "printf": true, "probit": true,
	"pvalue": true, "qlrtest": true, "qqplot": true, "quantreg": true,
	"quit": true, "rename": true, "reset": true, "restrict": true,
	"rmplot": true, "run": true, "runs": true, "scatters": true,
	"sdiff": true, "setinfo": true, "setobs": true, "setopt": true,
	"shell": true, "smpl": true, "spearman": true, "square": true,
	"store": true, "summary": true, "system": true, "tabprint": true,
	"textplot": true, "tobit": true, "tsls": true, "var": true,
	"varlist": true, "vartest": true, "vecm": true, "vif": true,
	"wls": true, "xcorrgm": true, "xtab": true,
}

// blockCommands open a region closed by "end <command>".
// if/loop blocks are closed by the dedicated endif/endloop keywords instead.
var blockCommands = map[string]bool{
	"foreign":  true,
	"function": true,
	"gmm":      true,
	"gpbuild":  true,
	"mle":      true,
	"mpi":      true,
	"nls":      true,
	"outfile":  true,
	"plot":     true,
	"restrict": true,
	"system":   true,
}

// IsCommand returns true if name is a gretl command word.
// Keywords (if, loop, end, type names) are classified by LookupIdent
// and are not repeated here.
func IsCommand(name string) bool {
	return commands[name]
}

// IsBlockCommand returns true if name opens an "end <name>" block.
func IsBlockCommand(name string) bool {
	return blockCommands[name]
}

// CommandNames returns the command words in no particular order.
// Used by completion and by the shadow-builtin check.
func CommandNames() []string {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	return names
}
