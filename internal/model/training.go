package model

// TrainingExample is one labeled utterance in a classifier's training set.
type TrainingExample struct {
	Text  string
	Label Intent
}
