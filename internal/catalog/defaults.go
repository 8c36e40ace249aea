package catalog

import "github.com/vistara-apps/energyflow/internal/models"

// Version identifies the built-in habit table. Bump it when entries change.
const Version = 1

// Default returns the built-in catalog: three habits per energy tier.
func Default() *Catalog {
	return New(defaultHabits)
}

var defaultHabits = []models.Habit{
	// Low energy
	{
		ID:          "deep-breathing",
		Name:        "3-Minute Deep Breathing",
		Description: "Gentle breathing exercise to restore calm energy",
		Category:    "Mindfulness",
		DurationMin: 3,
		Energy:      models.EnergyLow,
		Instructions: []string{
			"Find a comfortable seated position",
			"Close your eyes and breathe in for 4 counts",
			"Hold for 4 counts, then exhale for 6 counts",
			"Repeat for 3 minutes",
		},
	},
	{
		ID:          "gentle-stretch",
		Name:        "Gentle Neck & Shoulder Stretch",
		Description: "Release tension with simple stretches",
		Category:    "Movement",
		DurationMin: 2,
		Energy:      models.EnergyLow,
		Instructions: []string{
			"Sit up straight in your chair",
			"Slowly roll your shoulders backward 5 times",
			"Gently tilt your head to each side for 15 seconds",
			"Take 3 deep breaths",
		},
	},
	{
		ID:          "gratitude-moment",
		Name:        "Quick Gratitude Check",
		Description: "Shift perspective with gratitude",
		Category:    "Mindfulness",
		DurationMin: 1,
		Energy:      models.EnergyLow,
		Instructions: []string{
			"Think of 3 things you're grateful for today",
			"Feel the positive emotion for each one",
			"Smile and take a deep breath",
		},
	},

	// Medium energy
	{
		ID:          "desk-exercises",
		Name:        "Desk Energy Boost",
		Description: "Quick exercises to energize your body",
		Category:    "Movement",
		DurationMin: 3,
		Energy:      models.EnergyMedium,
		Instructions: []string{
			"Stand up and do 10 desk push-ups",
			"Do 15 calf raises",
			"Stretch your arms overhead for 30 seconds",
			"Take 5 deep breaths",
		},
	},
	{
		ID:          "hydration-check",
		Name:        "Mindful Hydration",
		Description: "Drink water mindfully and check in with your body",
		Category:    "Wellness",
		DurationMin: 2,
		Energy:      models.EnergyMedium,
		Instructions: []string{
			"Get a glass of water",
			"Drink slowly and mindfully",
			"Notice how your body feels",
			"Set intention for the next hour",
		},
	},
	{
		ID:          "quick-tidy",
		Name:        "2-Minute Tidy",
		Description: "Clear your space, clear your mind",
		Category:    "Organization",
		DurationMin: 2,
		Energy:      models.EnergyMedium,
		Instructions: []string{
			"Clear your desk of unnecessary items",
			"Organize your immediate workspace",
			"Take a moment to appreciate the clean space",
		},
	},

	// High energy
	{
		ID:          "power-walk",
		Name:        "Quick Power Walk",
		Description: "Get your blood flowing with movement",
		Category:    "Movement",
		DurationMin: 3,
		Energy:      models.EnergyHigh,
		Instructions: []string{
			"Step outside or walk around your space",
			"Walk briskly for 3 minutes",
			"Focus on your breathing and surroundings",
			"Return feeling refreshed",
		},
	},
	{
		ID:          "creative-burst",
		Name:        "Creative Brain Dump",
		Description: "Channel high energy into creativity",
		Category:    "Creativity",
		DurationMin: 3,
		Energy:      models.EnergyHigh,
		Instructions: []string{
			"Grab paper or open a note app",
			"Write down every idea in your head for 2 minutes",
			"Don't filter, just brain dump",
			"Circle the most interesting idea",
		},
	},
	{
		ID:          "learning-bite",
		Name:        "Quick Learning Bite",
		Description: "Feed your curious mind",
		Category:    "Learning",
		DurationMin: 3,
		Energy:      models.EnergyHigh,
		Instructions: []string{
			"Pick a topic you're curious about",
			"Read or watch something for 3 minutes",
			"Write down one key insight",
			"Think about how to apply it",
		},
	},
}
