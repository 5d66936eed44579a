package cli

import (
	"fmt"
	"strings"

	"github.com/AlecAivazis/survey/v2"

	"github.com/bhilarepratham/strategic-company-analyzer/config"
)

// PromptForIndustry prompts the user to pick an industry universe
func PromptForIndustry() (string, error) {
	industries := config.Industries()

	options := make([]string, 0, len(industries))
	for _, industry := range industries {
		options = append(options, fmt.Sprintf("%s (%d symbols)", industry, len(config.IndustrySymbols(industry))))
	}

	var selected string
	prompt := &survey.Select{
		Message: "Select an industry to collect:",
		Options: options,
		Help:    "The whole symbol universe for the chosen industry will be collected",
	}

	if err := survey.AskOne(prompt, &selected); err != nil {
		return "", err
	}

	industry, _, _ := strings.Cut(selected, " ")
	return industry, nil
}
