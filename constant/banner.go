package constant

// Banner is printed above the root command help.
const Banner = `
 ┌┬┐┬ ┬┌┐ ┬ ┬┬  ┌─┐┬─┐
  │ │ │├┴┐│ ││  ├─┤├┬┘
  ┴ └─┘└─┘└─┘┴─┘┴ ┴┴└─`
