package report

import "covid-report/internal/model"

// Narrative texts accompanying the views. These are fixed editorial content,
// not computed from the data.

var edaInsights = []model.NarrativeItem{
	{
		Heading: "Global Trends in 2020",
		Body:    "COVID-19 spread in waves during 2020, with confirmed cases peaking earlier than deaths. Recovery followed with a delay, reflecting treatment and reporting lags.",
	},
	{
		Heading: "Top 10 Countries",
		Body:    "The US, India, and Brazil dominate confirmed cases and deaths, highlighting regions under heavy strain. High recovery counts in India show progress in treatment and resilience.",
	},
	{
		Heading: "Average CFR by Continent",
		Body:    "Europe shows the highest average fatality rates, suggesting older demographics and strained health systems. Africa and Asia show lower CFRs, possibly due to younger populations or underreporting.",
	},
	{
		Heading: "Tests vs. Cases",
		Body:    "More testing generally leads to more detected cases. However, Africa shows fewer cases despite limited testing, suggesting under-detection rather than lower spread.",
	},
	{
		Heading: "New Cases and Deaths Over Time",
		Body:    "Peaks of new cases often precede peaks in deaths, showing the lag between infection and fatality outcomes. Clear pandemic waves are visible globally.",
	},
	{
		Heading: "Recovery Rate by Continent",
		Body:    "Asia leads recovery rates (>75%), suggesting better treatment outcomes and rapid responses. The Americas lag behind, reflecting healthcare capacity challenges.",
	},
}

var insightItems = []model.NarrativeItem{
	{
		Heading: "Where should limited global health resources focus?",
		Body:    "The Americas and Europe, as they have the largest case burden.",
	},
	{
		Heading: "Which continent has the highest CFR and what does it mean?",
		Body:    "Europe, suggesting strain on healthcare systems and vulnerable populations.",
	},
	{
		Heading: "How effective was testing in controlling spread?",
		Body:    "Stronger testing in Europe and North America led to more case detection; low testing in Africa caused under-detection.",
	},
	{
		Heading: "What trends are seen in new cases and deaths?",
		Body:    "Clear waves of peaks and declines linked to variants and policy changes.",
	},
	{
		Heading: "Which continent recovered fastest?",
		Body:    "Asia, with a recovery rate above 75%.",
	},
}

var recommendationItems = []model.NarrativeItem{
	{
		Heading: "Immediate aid for hotspots",
		Body:    "Prioritize the Americas and Europe: PPE, ventilators, and financial support.",
	},
	{
		Heading: "Testing",
		Body:    "Expand testing in Africa and other under-tested regions, linked with contact tracing.",
	},
	{
		Heading: "Vaccination",
		Body:    "Time campaigns ahead of predicted waves and target boosters to vulnerable groups.",
	},
	{
		Heading: "Knowledge sharing",
		Body:    "Spread practices from Asia, where recovery rates are highest, globally.",
	},
	{
		Heading: "Long-term resilience",
		Body:    "Build resilient healthcare systems and regional hubs for future pandemics.",
	},
}
