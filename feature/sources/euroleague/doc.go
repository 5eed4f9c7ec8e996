// Package euroleague reads EuroLeague and EuroCup games from the Euroleague Basketball API.
package euroleague
