// Package checker turns an experiment row into the command line of the model
// checker it names. Apalache takes everything as flags; TLC additionally
// needs an MC.cfg written into the experiment directory.
package checker
