// Package trigger binds collection play actions to the start and end phases
// of host trigger sources.
//
// A Binder creates discrete trigger entries that point at this plugin's
// store id and name a play action as their receiver target. Entries are
// tracked per phase by entry name so that renaming a collection can retarget
// existing entries in place; unlike action bindings, trigger entries are
// never removed and recreated on rename.
package trigger
