// Package hgroup implements an H-Group style convention layer on top of
// the game engine. It interprets clues, plays and discards into shared
// belief updates, maintains waiting connections for multi-card chains
// (prompts, finesses, bluffs), and chooses actions for the bot.
//
// The convention object is stateless apart from its options; all belief
// state lives on game.State so it survives engine rewinds.
package hgroup
