// Package interop bridges arbor trees and github.com/joeycumines/go-behaviortree.
//
// Adapt exposes an arbor tree as a behaviortree.Node so it can run inside a
// go-behaviortree host (tickers, managers, its Sequence and Selector).
// Embed goes the other way and turns a behaviortree.Node into an arbor
// Action leaf.
//
// arbor nodes never report Running; go-behaviortree's Running status is
// treated as failure when it crosses into arbor.
package interop
