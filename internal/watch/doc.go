// Package watch reports changes to the source files of a project tree.
//
// A Watcher follows every directory below the root with fsnotify, skipping
// the directories the scanner skips. Changes are collected until the tree
// has been quiet for the settle period, then delivered as one Event per
// file. Directories created while watching are added as they appear.
package watch
