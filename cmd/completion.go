package cmd

import (
	"github.com/gitexel/ach-file/docs"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// Completion describes the command line for shell completion.
// Install it with COMP_INSTALL=1 achtool.
func Completion() *complete.Command {
	achFiles := predict.Files("*.ach")
	inputs := predict.Or(achFiles, predict.Files("*.json"))
	global := map[string]complete.Predictor{
		"schema-file": predict.Files("*.yaml"),
		"v":           predict.Nothing,
	}
	return &complete.Command{
		Flags: global,
		Sub: map[string]*complete.Command{
			"build": {
				Flags: map[string]complete.Predictor{
					"o":       predict.Files("*.ach"),
					"entries": predict.Or(predict.Files("*.csv"), predict.Files("*.xlsx")),
					"batch":   predict.Something,
					"k":       predict.Nothing,
				},
				Args: predict.Or(predict.Files("*.yaml"), predict.Files("*.yml"), predict.Files("*.json")),
			},
			"fmt": {
				Flags: map[string]complete.Predictor{
					"w": predict.Nothing,
					"o": predict.Files("*"),
				},
				Args: inputs,
			},
			"parse": {
				Flags: map[string]complete.Predictor{
					"o":       predict.Files("*.json"),
					"compact": predict.Nothing,
				},
				Args: inputs,
			},
			"validate": {Args: inputs},
			"describe": {
				Flags: map[string]complete.Predictor{
					"html":  predict.Nothing,
					"table": predict.Nothing,
				},
				Args: inputs,
			},
			"query": {
				Flags: map[string]complete.Predictor{"raw": predict.Nothing},
				Args:  inputs,
			},
			"topic":    {Args: predict.Set(append(docs.List(), "*"))},
			"help":     {},
			"flags":    {},
			"commands": {},
		},
	}
}
